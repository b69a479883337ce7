// Package matcher decides whether a release title applies to a requested
// season/episode and extracts quality and language tags from it. All
// functions are pure string heuristics over normalized titles.
package matcher

import (
	"regexp"
	"strconv"
	"strings"
)

// Quality tiers in descending order of preference.
const (
	Quality4K      = "4K"
	Quality1080p   = "1080p"
	Quality720p    = "720p"
	QualitySD      = "SD"
	QualityUnknown = "Unknown"
)

// Language tags attached to a release title.
const (
	LangITA    = "ITA"
	LangSubITA = "SUB-ITA"
	LangMulti  = "MULTI"
	LangEngSub = "ENG/SUB"
)

// Info holds the quality and language tags extracted from a title.
type Info struct {
	Quality   string
	Languages []string
	Audio     string
}

// HasItalian reports whether the title carries Italian audio or subtitles.
func (i Info) HasItalian() bool {
	for _, lang := range i.Languages {
		if lang == LangITA || lang == LangSubITA {
			return true
		}
	}
	return false
}

var titleNormalizer = strings.NewReplacer(
	".", " ", "-", " ", "_", " ",
	"[", " ", "]", " ", "(", " ", ")", " ",
)

var (
	// "S01E05", "s1 e5"
	compactEpisodeRegex = regexp.MustCompile(`\bs\s*(\d{1,2})\s*e\s*(\d{1,3})\b`)
	// "1x05"
	crossEpisodeRegex = regexp.MustCompile(`\b(\d{1,2})\s*x\s*(\d{1,3})\b`)
	// "seasons 1 3" (hyphens become spaces during normalization),
	// "stagioni 1 a 4", "s01 s03"
	multiSeasonRegex = regexp.MustCompile(`(?:s|stagion[ie]|seasons?)\s*(\d{1,2})\s*(?:(?:a|al|to|thru|e)\s+|\s)(?:s|stagion[ie]|seasons?)?\s*(\d{1,2})\b`)
	// "ep 5", "episodio 12", standalone "e05"
	wordEpisodeRegex = regexp.MustCompile(`\b(?:ep?|episodio)\s*(\d{1,3})\b`)
	// "e01 e10", "e01 al 10", "x01 a x12"
	episodeRangeRegex = regexp.MustCompile(`(?:e|x)\s*(\d{1,3})\s*(?:(?:al?|to)\s*(?:e|x)?|(?:e|x))\s*(\d{1,3})\b`)
	packKeywordRegex  = regexp.MustCompile(`\b(?:pack|completa|complete|tutta)\b`)
	absoluteTokenRegex = regexp.MustCompile(`^#?(\d{1,4})(?:v\d+)?$`)
)

// NormalizeTitle lowercases a release title and flattens the usual
// scene-release separators to spaces.
func NormalizeTitle(title string) string {
	flat := titleNormalizer.Replace(strings.ToLower(title))
	return strings.Join(strings.Fields(flat), " ")
}

// Matches reports whether a release title is applicable to the requested
// season and episode. Anime releases are additionally checked for absolute
// episode numbering, since anime indexers frequently omit season markers.
//
// A title carrying an explicit episode marker for a different episode is
// rejected even when it also carries a season pack keyword; the explicit
// marker is considered the more reliable signal.
func Matches(title string, season, episode int, anime bool) bool {
	t := NormalizeTitle(title)
	if t == "" {
		return false
	}

	if anime && hasAbsoluteEpisode(t, episode) {
		return true
	}

	// A compact marker names both season and episode at once and
	// overrides every other heuristic.
	if m := compactEpisodeRegex.FindStringSubmatch(t); m != nil {
		return atoi(m[1]) == season && episodeApplies(t, atoi(m[2]), episode)
	}
	if m := crossEpisodeRegex.FindStringSubmatch(t); m != nil {
		return atoi(m[1]) == season && episodeApplies(t, atoi(m[2]), episode)
	}

	if m := multiSeasonRegex.FindStringSubmatch(t); m != nil {
		if start, end := atoi(m[1]), atoi(m[2]); season >= start && season <= end {
			return true
		}
	}

	hasSeason := hasSeasonMarker(t, season)
	if !hasSeason && !anime {
		return false
	}

	if m := wordEpisodeRegex.FindStringSubmatch(t); m != nil {
		return episodeApplies(t, atoi(m[1]), episode)
	}

	// Season marker with no episode marker is a season pack.
	return hasSeason
}

// IsPack reports whether a title advertises a whole-season or whole-series
// bundle rather than a single episode.
func IsPack(title string) bool {
	t := NormalizeTitle(title)
	if packKeywordRegex.MatchString(t) {
		return true
	}
	return strings.Contains(t, "serie completa") || strings.Contains(t, "complete series")
}

var camRegex = regexp.MustCompile(`\b(?:cam|hdcam|camrip|telesync|telecine)\b`)

// IsCam reports whether a title advertises a theater recording.
func IsCam(title string) bool {
	return camRegex.MatchString(NormalizeTitle(title))
}

func episodeApplies(t string, found, want int) bool {
	if found == want {
		return true
	}
	if m := episodeRangeRegex.FindStringSubmatch(t); m != nil {
		if start, end := atoi(m[1]), atoi(m[2]); want >= start && want <= end {
			return true
		}
	}
	return false
}

func hasSeasonMarker(t string, season int) bool {
	s := strconv.Itoa(season)
	padded := s
	if season < 10 {
		padded = "0" + s
	}
	markers := []string{
		"s" + padded,
		"s" + s + " ",
		"stagione " + s,
		"stagione " + padded,
		s + "^ stagione",
		"season " + s,
		"serie completa",
		"complete series",
	}
	for _, marker := range markers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

func hasAbsoluteEpisode(t string, episode int) bool {
	for _, token := range strings.Fields(t) {
		m := absoluteTokenRegex.FindStringSubmatch(token)
		if m != nil && atoi(m[1]) == episode {
			return true
		}
	}
	return false
}

var (
	subItaRegex     = regexp.MustCompile(`\b(?:sub\s*ita|subita|vose)\b`)
	italianRegex    = regexp.MustCompile(`\b(?:ita|italian|italiano)\b`)
	multiLangRegex  = regexp.MustCompile(`\b(?:multi|dual)\b`)
	surroundRegex   = regexp.MustCompile(`\b(?:ac3|dd5\s*1|5\s*1|dts)\b`)
	stereoRegex     = regexp.MustCompile(`\b(?:aac|2\s*0|stereo)\b`)
	lowQualityRegex = regexp.MustCompile(`\b(?:480p|sd)\b`)
)

// ExtractInfo derives quality, language tags and audio layout from a
// release or file title.
func ExtractInfo(title string) Info {
	t := NormalizeTitle(title)

	info := Info{Quality: QualityUnknown}
	switch {
	case strings.Contains(t, "2160p") || strings.Contains(t, "4k") || strings.Contains(t, "uhd"):
		info.Quality = Quality4K
	case strings.Contains(t, "1080p"):
		info.Quality = Quality1080p
	case strings.Contains(t, "720p"):
		info.Quality = Quality720p
	case lowQualityRegex.MatchString(t):
		info.Quality = QualitySD
	}

	switch {
	case subItaRegex.MatchString(t):
		info.Languages = append(info.Languages, LangSubITA)
	case italianRegex.MatchString(t):
		info.Languages = append(info.Languages, LangITA)
	}
	if multiLangRegex.MatchString(t) {
		info.Languages = append(info.Languages, LangMulti)
	}
	if len(info.Languages) == 0 {
		info.Languages = append(info.Languages, LangEngSub)
	}

	switch {
	case surroundRegex.MatchString(t):
		info.Audio = "5.1"
	case stereoRegex.MatchString(t):
		info.Audio = "2.0"
	}

	return info
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
