package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleConfigure serves the configuration page. The form builds the
// base64 blob client-side and hands it to Stremio as part of the install
// URL, so keys never transit as query parameters.
func (h *Handler) handleConfigure(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, configurePage)
}

const configurePage = `<!DOCTYPE html>
<html lang="it">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Stremita - Configurazione</title>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, 'Segoe UI', Roboto, sans-serif;
      background-color: #10151f;
      color: #e8e8e8;
      margin: 0;
      padding: 20px;
      display: flex;
      align-items: center;
      justify-content: center;
      min-height: 100vh;
    }
    .container {
      background-color: #1a2230;
      border-radius: 8px;
      padding: 30px;
      max-width: 480px;
      width: 100%;
    }
    h1 { text-align: center; color: #7ec8a9; margin-top: 0; }
    label { font-weight: 500; margin-top: 15px; display: block; }
    input[type=text] {
      width: 100%;
      padding: 10px;
      border: 1px solid #2d3a4f;
      border-radius: 4px;
      margin-top: 5px;
      font-size: 1rem;
      background-color: #10151f;
      color: #e8e8e8;
    }
    .check { margin-top: 12px; }
    .check label { display: inline; font-weight: 400; }
    button {
      width: 100%;
      margin-top: 25px;
      padding: 12px;
      border: none;
      border-radius: 4px;
      background-color: #7ec8a9;
      color: #10151f;
      font-size: 1rem;
      font-weight: 700;
      cursor: pointer;
    }
    .hint { font-size: 0.85rem; color: #8a97a8; margin-top: 4px; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Stremita</h1>
    <label for="tmdb">TMDB API Key</label>
    <input type="text" id="tmdb" autocomplete="off">
    <div class="hint">themoviedb.org &rarr; Settings &rarr; API</div>

    <label for="rd">Real-Debrid API Key</label>
    <input type="text" id="rd" autocomplete="off">
    <div class="hint">real-debrid.com/apitoken</div>

    <div class="check">
      <input type="checkbox" id="onlyIta">
      <label for="onlyIta">Solo risultati italiani</label>
    </div>
    <div class="check">
      <input type="checkbox" id="no4k">
      <label for="no4k">Escludi 4K</label>
    </div>
    <div class="check">
      <input type="checkbox" id="noCam">
      <label for="noCam">Escludi CAM/TS</label>
    </div>

    <button onclick="install()">Installa in Stremio</button>
  </div>
  <script>
    function install() {
      var conf = {
        tmdb: document.getElementById('tmdb').value.trim(),
        rd: document.getElementById('rd').value.trim(),
        filters: {
          onlyIta: document.getElementById('onlyIta').checked,
          no4k: document.getElementById('no4k').checked,
          noCam: document.getElementById('noCam').checked
        }
      };
      var blob = btoa(JSON.stringify(conf));
      window.location.href = 'stremio://' + window.location.host + '/' + blob + '/manifest.json';
    }
  </script>
</body>
</html>
`
