package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesExplicitEpisode(t *testing.T) {
	assert.True(t, Matches("Show.S01E05.ITA.1080p", 1, 5, false))
	assert.False(t, Matches("Show.S01E05.ITA.1080p", 1, 6, false))
	assert.False(t, Matches("Show.S02E05.ITA.1080p", 1, 5, false))
	assert.True(t, Matches("Show 1x05 ITA", 1, 5, false))
	assert.False(t, Matches("Show 1x05 ITA", 1, 6, false))
	assert.True(t, Matches("Show Stagione 2 Episodio 7 ITA", 2, 7, false))
}

func TestMatchesSeasonPack(t *testing.T) {
	assert.True(t, Matches("Show.S02.COMPLETE.ITA.1080p", 2, 1, false))
	assert.True(t, Matches("Show.S02.COMPLETE.ITA.1080p", 2, 11, false))
	assert.False(t, Matches("Show.S02.COMPLETE.ITA.1080p", 3, 1, false))
	assert.True(t, Matches("Show Stagione 3 ITA", 3, 8, false))
	assert.True(t, Matches("Show 1^ Stagione ITA", 1, 4, false))
	assert.True(t, Matches("Show Serie Completa ITA", 4, 2, false))
}

func TestMatchesMultiSeasonRange(t *testing.T) {
	assert.True(t, Matches("Show Seasons 1-3 1080p", 2, 9, false))
	assert.False(t, Matches("Show Seasons 1-3 1080p", 4, 1, false))
	assert.True(t, Matches("Show Stagioni 1 a 4 ITA", 3, 2, false))
	assert.True(t, Matches("Show S01-S03 ITA", 1, 7, false))
}

func TestMatchesEpisodeRange(t *testing.T) {
	assert.True(t, Matches("Show S01 E01-E10 ITA", 1, 5, false))
	assert.False(t, Matches("Show S01 E01-E10 ITA", 1, 12, false))
	assert.True(t, Matches("Show S02 E05 al 08 ITA", 2, 7, false))
}

func TestMatchesEpisodeMarkerBeatsPackKeyword(t *testing.T) {
	// An explicit range that excludes the requested episode rejects the
	// title even when a pack keyword is present.
	assert.False(t, Matches("Show S01 COMPLETE E01-E04 ITA", 1, 6, false))
	assert.True(t, Matches("Show S01 COMPLETE E01-E04 ITA", 1, 3, false))
}

func TestMatchesNoSeasonReference(t *testing.T) {
	assert.False(t, Matches("Show ITA 1080p", 1, 5, false))
	assert.False(t, Matches("", 1, 5, false))
}

func TestMatchesAnimeAbsoluteNumbering(t *testing.T) {
	assert.True(t, Matches("Title 220 [1080p]", 1, 220, true))
	assert.True(t, Matches("Title #101v2 BD", 1, 101, true))
	assert.False(t, Matches("Title 220 [1080p]", 1, 221, true))
	assert.False(t, Matches("Title 220 [1080p]", 1, 220, false))
	// Anime can still match through regular markers.
	assert.True(t, Matches("Title S01E12", 1, 12, true))
	assert.False(t, Matches("Title 1080p", 1, 12, true))
}

func TestMatchesResolutionNotMistakenForEpisode(t *testing.T) {
	assert.True(t, Matches("Show.S02.ITA.1080p.x265", 2, 4, false))
	assert.True(t, Matches("Show Stagione 1 ITA 720p", 1, 9, false))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "show s01e05 ita", NormalizeTitle("Show.S01E05_[ITA]"))
	assert.Equal(t, "show 2019", NormalizeTitle("  Show (2019) "))
}

func TestExtractInfoQuality(t *testing.T) {
	assert.Equal(t, Quality4K, ExtractInfo("Show.2160p.ITA").Quality)
	assert.Equal(t, Quality4K, ExtractInfo("Show 4K UHD").Quality)
	assert.Equal(t, Quality1080p, ExtractInfo("Show.1080p.WEB-DL").Quality)
	assert.Equal(t, Quality720p, ExtractInfo("Show 720p HDTV").Quality)
	assert.Equal(t, QualitySD, ExtractInfo("Show 480p DVDRip").Quality)
	assert.Equal(t, QualityUnknown, ExtractInfo("Show WEB-DL").Quality)
}

func TestExtractInfoLanguages(t *testing.T) {
	assert.Equal(t, []string{LangITA}, ExtractInfo("Show.ITA.1080p").Languages)
	assert.Equal(t, []string{LangSubITA}, ExtractInfo("Show.SUB-ITA.1080p").Languages)
	assert.Equal(t, []string{LangITA, LangMulti}, ExtractInfo("Show.ITA.MULTI").Languages)
	assert.Equal(t, []string{LangEngSub}, ExtractInfo("Show.1080p.WEB-DL").Languages)
	// "ita" must be a standalone token.
	assert.Equal(t, []string{LangEngSub}, ExtractInfo("Digital.Fortress.1080p").Languages)
}

func TestExtractInfoAudio(t *testing.T) {
	assert.Equal(t, "5.1", ExtractInfo("Show.ITA.AC3.5.1").Audio)
	assert.Equal(t, "2.0", ExtractInfo("Show.ITA.AAC").Audio)
	assert.Empty(t, ExtractInfo("Show.ITA.1080p").Audio)
}

func TestInfoHasItalian(t *testing.T) {
	assert.True(t, ExtractInfo("Show.ITA.1080p").HasItalian())
	assert.True(t, ExtractInfo("Show.SUB-ITA.1080p").HasItalian())
	assert.False(t, ExtractInfo("Show.MULTI.1080p").HasItalian())
	assert.False(t, ExtractInfo("Show.1080p").HasItalian())
}

func TestIsPack(t *testing.T) {
	assert.True(t, IsPack("Show S01 COMPLETE ITA"))
	assert.True(t, IsPack("Show Stagione 1 Completa"))
	assert.True(t, IsPack("Show Serie Completa"))
	assert.False(t, IsPack("Show S01E05 ITA"))
}

func TestIsCam(t *testing.T) {
	assert.True(t, IsCam("Movie 2024 ITA CAM"))
	assert.True(t, IsCam("Movie.2024.HDCAM"))
	assert.False(t, IsCam("Movie 2024 ITA BluRay"))
}