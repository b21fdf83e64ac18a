package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/bobmcallan/argentis/internal/models"
)

// Sentiment labels.
const (
	Positive = "Positif"
	Negative = "Négatif"
	Neutral  = "Neutre"
)

// SentimentLabels lists the labels in chart order.
var SentimentLabels = []string{Positive, Neutral, Negative}

var (
	positiveTerms = []string{"gain", "strong"}
	negativeTerms = []string{"loss", "weak"}
)

// HeadlineScore counts positive minus negative substrings in a lower-cased title.
func HeadlineScore(title string) int {
	t := strings.ToLower(title)
	score := 0
	for _, term := range positiveTerms {
		score += strings.Count(t, term)
	}
	for _, term := range negativeTerms {
		score -= strings.Count(t, term)
	}
	return score
}

// Label maps a headline score to its sentiment label.
func Label(score int) string {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// ScoredHeadline is a headline with its score and label.
type ScoredHeadline struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher,omitempty"`
	Link      string `json:"link,omitempty"`
	Score     int    `json:"score"`
	Label     string `json:"label"`
}

// WordCount is one entry of the word frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SentimentReport is the output of the sentiment page.
type SentimentReport struct {
	Symbol       string           `json:"symbol"`
	Simulated    bool             `json:"simulated"`
	Headlines    []ScoredHeadline `json:"headlines"`
	Distribution map[string]int   `json:"distribution"`
	Words        []WordCount      `json:"words"`
}

// SimulatedHeadlines returns the placeholder French headlines used when no news is available.
func SimulatedHeadlines(symbol string) []models.NewsItem {
	return []models.NewsItem{
		{Title: symbol + " annonce un nouveau produit innovant"},
		{Title: "Les analystes prédisent une croissance pour " + symbol},
		{Title: symbol + " fait face à une baisse des ventes"},
	}
}

// MaxWords caps the word frequency table.
const MaxWords = 50

// AnalyzeSentiment scores news headlines. When news is empty the simulated
// headlines are scored instead and Simulated is set.
func AnalyzeSentiment(symbol string, news []models.NewsItem) *SentimentReport {
	report := &SentimentReport{Symbol: symbol, Distribution: make(map[string]int)}
	if len(news) == 0 {
		news = SimulatedHeadlines(symbol)
		report.Simulated = true
	}

	titles := make([]string, 0, len(news))
	for _, n := range news {
		score := HeadlineScore(n.Title)
		label := Label(score)
		report.Headlines = append(report.Headlines, ScoredHeadline{
			Title:     n.Title,
			Publisher: n.Publisher,
			Link:      n.Link,
			Score:     score,
			Label:     label,
		})
		report.Distribution[label]++
		titles = append(titles, n.Title)
	}

	report.Words = WordFrequencies(strings.Join(titles, " "), MaxWords)
	return report
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true, "by": true,
	"for": true, "from": true, "has": true, "have": true, "in": true, "is": true, "it": true, "its": true,
	"of": true, "on": true, "or": true, "that": true, "the": true, "this": true, "to": true, "was": true,
	"will": true, "with": true, "after": true, "over": true, "into": true, "than": true, "but": true,
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true, "du": true, "de": true,
	"et": true, "en": true, "pour": true, "par": true, "sur": true, "au": true, "aux": true, "fait": true,
}

// WordFrequencies tokenises text into lower-cased words of two or more letters,
// drops common English and French stop words and returns the top n by count.
// Ties are ordered alphabetically.
func WordFrequencies(text string, n int) []WordCount {
	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for _, w := range words {
		w = strings.Trim(w, "'")
		if len([]rune(w)) < 2 || stopWords[w] {
			continue
		}
		counts[w]++
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
