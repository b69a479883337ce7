package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/stremita/stremita/internal/constants"
	streamerrors "github.com/stremita/stremita/internal/errors"
	"github.com/stremita/stremita/internal/matcher"
	"github.com/stremita/stremita/internal/models"
	"github.com/stremita/stremita/internal/realdebrid"
	"github.com/stremita/stremita/pkg/logger"
	"github.com/stremita/stremita/pkg/ratelimiter"
)

// DebridClient is the slice of the Real-Debrid API the resolver needs.
type DebridClient interface {
	AddMagnet(ctx context.Context, magnet string) (*realdebrid.AddedMagnet, error)
	GetTorrentInfo(ctx context.Context, torrentID string) (*realdebrid.TorrentInfo, error)
	SelectFiles(ctx context.Context, torrentID, fileIDs string) error
	UnrestrictLink(ctx context.Context, link string) (*realdebrid.UnrestrictedLink, error)
}

// MagnetRecorder persists submitted torrents so the cleanup job can delete
// stale ones from the debrid account later.
type MagnetRecorder interface {
	RecordMagnet(torrentID, infoHash, title string) error
}

var errCacheMiss = errors.New("torrent not in debrid cache")

var videoExtensions = []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv"}

var junkKeywords = []string{"sample", "trailer", "extra", "bonus"}

// Resolver confirms candidate availability against the debrid cache and
// turns cached candidates into playable streams. Calls are strictly
// sequential and paced; the debrid API bans bursty clients, so concurrency
// here would raise the failure rate, not the throughput.
type Resolver struct {
	client   DebridClient
	recorder MagnetRecorder
	pacer    *ratelimiter.Pacer
	logger   logger.Logger
	budget   int
}

func NewResolver(client DebridClient, recorder MagnetRecorder, budget int) *Resolver {
	if budget <= 0 || budget > constants.MaxCandidateBudget {
		budget = constants.DefaultCandidateBudget
	}
	return &Resolver{
		client:   client,
		recorder: recorder,
		pacer:    ratelimiter.NewPacer(constants.DebridCallInterval),
		logger:   logger.NewScoped("Resolver"),
		budget:   budget,
	}
}

// Resolve walks the ranked candidate list, bounded by the candidate budget,
// and returns the streams that are ready to play. Cancellation returns
// whatever has been produced so far. An invalid debrid token aborts the
// batch and is reported once.
func (r *Resolver) Resolve(ctx context.Context, candidates []models.Candidate, meta *models.Metadata) ([]models.Stream, error) {
	if len(candidates) > r.budget {
		candidates = candidates[:r.budget]
	}

	var streams []models.Stream
	for _, candidate := range candidates {
		if err := r.pacer.Wait(ctx); err != nil {
			return streams, nil
		}

		stream, err := r.resolveCandidate(ctx, candidate, meta)
		switch {
		case err == nil:
			streams = append(streams, *stream)
		case errors.Is(err, errCacheMiss):
			// The common case, not worth a log line per candidate.
		case errors.Is(err, realdebrid.ErrInvalidToken):
			r.logger.Errorf("debrid token rejected, aborting batch")
			return streams, streamerrors.NewDebridAuthError(err)
		case errors.Is(err, realdebrid.ErrRateLimited):
			r.logger.Warnf("debrid rate limit hit, cooling down")
			r.pacer.Cooldown(constants.DebridRateLimitCooldown)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return streams, nil
		default:
			r.logger.Warnf("candidate %s failed: %v", candidate.InfoHash, err)
			streams = append(streams, fallbackStream(candidate))
			r.pacer.Cooldown(constants.DebridRateLimitCooldown)
		}
	}
	return streams, nil
}

// resolveCandidate runs the per-candidate state machine:
// submitted -> awaiting selection -> files selected -> ready or discarded.
// The pipeline never waits for an active download; anything that is not
// already downloaded is a cache miss.
func (r *Resolver) resolveCandidate(ctx context.Context, candidate models.Candidate, meta *models.Metadata) (*models.Stream, error) {
	added, err := r.client.AddMagnet(ctx, candidate.MagnetURI)
	if err != nil {
		return nil, err
	}
	if r.recorder != nil {
		if err := r.recorder.RecordMagnet(added.ID, candidate.InfoHash, candidate.Title); err != nil {
			r.logger.Warnf("failed to record magnet %s: %v", candidate.InfoHash, err)
		}
	}

	info, err := r.client.GetTorrentInfo(ctx, added.ID)
	if err != nil {
		return nil, err
	}

	if info.Status == realdebrid.TorrentStatusWaitingSelection {
		if err := r.client.SelectFiles(ctx, added.ID, selectableFileIDs(info.Files)); err != nil {
			return nil, err
		}
		info, err = r.client.GetTorrentInfo(ctx, added.ID)
		if err != nil {
			return nil, err
		}
	}

	if info.Status != realdebrid.TorrentStatusDownloaded {
		return nil, errCacheMiss
	}

	mainFile, link, ok := largestSelectedFile(info)
	if !ok {
		return nil, errCacheMiss
	}

	unrestricted, err := r.client.UnrestrictLink(ctx, link)
	if err != nil {
		return nil, err
	}

	// Filter on the confirmed size, not the index hint; it is what guards
	// against samples and partial uploads.
	minSize := int64(constants.MinMovieStreamBytes)
	if meta.IsSeries {
		minSize = constants.MinSeriesStreamBytes
	}
	if unrestricted.Filesize < minSize {
		r.logger.Debugf("discarding %s: confirmed size %d below threshold", candidate.InfoHash, unrestricted.Filesize)
		return nil, errCacheMiss
	}

	filename := unrestricted.Filename
	if filename == "" {
		filename = path.Base(mainFile.Path)
	}
	return buildStream(candidate, filename, unrestricted.Filesize, unrestricted.Download), nil
}

// selectableFileIDs picks the plausible video files of a torrent: video
// extension, no junk marker in the path, above the minimum size. When
// nothing qualifies it falls back to selecting everything.
func selectableFileIDs(files []realdebrid.TorrentFile) string {
	var ids []string
	for _, file := range files {
		lower := strings.ToLower(file.Path)
		if !hasVideoExtension(lower) {
			continue
		}
		if containsJunkKeyword(lower) {
			continue
		}
		if file.Bytes <= constants.MinSelectableFileBytes {
			continue
		}
		ids = append(ids, strconv.Itoa(file.ID))
	}
	if len(ids) == 0 {
		return "all"
	}
	return strings.Join(ids, ",")
}

func hasVideoExtension(path string) bool {
	for _, ext := range videoExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func containsJunkKeyword(path string) bool {
	for _, junk := range junkKeywords {
		if strings.Contains(path, junk) {
			return true
		}
	}
	return false
}

// largestSelectedFile returns the biggest selected file and the restricted
// link that corresponds to it. Real-Debrid emits one link per selected file
// in file order.
func largestSelectedFile(info *realdebrid.TorrentInfo) (realdebrid.TorrentFile, string, bool) {
	var selected []realdebrid.TorrentFile
	for _, file := range info.Files {
		if file.Selected == 1 {
			selected = append(selected, file)
		}
	}
	if len(selected) == 0 || len(info.Links) == 0 {
		return realdebrid.TorrentFile{}, "", false
	}

	largest := 0
	for i, file := range selected {
		if file.Bytes > selected[largest].Bytes {
			largest = i
		}
	}
	link := info.Links[0]
	if largest < len(info.Links) {
		link = info.Links[largest]
	}
	return selected[largest], link, true
}

func buildStream(candidate models.Candidate, filename string, size int64, url string) *models.Stream {
	info := matcher.ExtractInfo(filename)
	// Resolved filenames often drop the language tags the release title
	// carried; fall back to the title's tags in that case.
	if len(info.Languages) == 1 && info.Languages[0] == matcher.LangEngSub {
		if titleInfo := matcher.ExtractInfo(candidate.Title); titleInfo.HasItalian() {
			info.Languages = titleInfo.Languages
		}
	}
	if info.Quality == matcher.QualityUnknown {
		info.Quality = matcher.ExtractInfo(candidate.Title).Quality
	}

	details := []string{filename, humanize.IBytes(uint64(size)), strings.Join(info.Languages, " / ")}
	if info.Audio != "" {
		details = append(details, info.Audio)
	}

	sources := append([]string(nil), candidate.Sources...)
	sort.Strings(sources)

	return &models.Stream{
		Name:  fmt.Sprintf("[RD+] %s\n%s", strings.Join(sources, "+"), info.Quality),
		Title: strings.Join(details, "\n"),
		URL:   url,
	}
}

// fallbackStream exposes the raw magnet when the debrid call failed for a
// transient reason; players that handle magnets can still use it.
func fallbackStream(candidate models.Candidate) models.Stream {
	info := matcher.ExtractInfo(candidate.Title)
	size := "unknown size"
	if candidate.SizeBytes > 0 {
		size = humanize.IBytes(uint64(candidate.SizeBytes))
	}
	return models.Stream{
		Name:  fmt.Sprintf("[RD error] %s\n%s", strings.Join(candidate.Sources, "+"), info.Quality),
		Title: candidate.Title + "\n" + size,
		URL:   candidate.MagnetURI,
		BehaviorHints: &models.StreamBehaviorHints{
			NotWebReady: true,
		},
	}
}
