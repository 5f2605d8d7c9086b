package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushreport/rushreport/internal/models"
)

const (
	reportTemperature = 0.7
	// token ceiling is proportional to requested word count
	tokensPerWord       = 4
	minCompletionTokens = 1000
	// only the head of the style sample is quoted into the prompt
	sampleQuoteLimit = 500

	defaultLanguage = "english"

	systemPrompt = "You are an expert at writing realistic student book reports."
)

// TextCompleter is interface for text-generation provider
type TextCompleter interface {
	// Complete returns generated text for the given prompts
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// educationProfile maps education level to writing parameters
type educationProfile struct {
	Description        string
	VocabularyLevel    string
	AnalyticalDepth    string
	ParagraphStructure string
}

var educationProfiles = map[string]educationProfile{
	models.LevelElementary: {
		Description:        "elementary school",
		VocabularyLevel:    "basic",
		AnalyticalDepth:    "simple",
		ParagraphStructure: "short paragraphs with 2-3 simple sentences each",
	},
	models.LevelMiddle: {
		Description:        "middle school",
		VocabularyLevel:    "intermediate",
		AnalyticalDepth:    "developing",
		ParagraphStructure: "structured paragraphs with 3-5 sentences each",
	},
	models.LevelHigh: {
		Description:        "high school",
		VocabularyLevel:    "advanced",
		AnalyticalDepth:    "moderate analytical",
		ParagraphStructure: "well-developed paragraphs with clear topic sentences",
	},
	models.LevelCollege: {
		Description:        "college",
		VocabularyLevel:    "college-level",
		AnalyticalDepth:    "in-depth analytical",
		ParagraphStructure: "complex paragraphs with supporting evidence and analysis",
	},
}

// getEducationProfile returns profile for level, defaulting to high school
func getEducationProfile(level string) educationProfile {
	if profile, ok := educationProfiles[strings.ToLower(strings.TrimSpace(level))]; ok {
		return profile
	}
	return educationProfiles[models.LevelHigh]
}

// GenerateReportParams holds report generation input
type GenerateReportParams struct {
	BookTitle   string
	Author      string
	GradeLevel  string
	TargetGrade string
	Length      int
	Realism     bool
	SampleText  string
	Language    string
}

// ReportService generates book reports through a text-generation provider
type ReportService struct {
	completer TextCompleter
}

// NewReportService creates new ReportService instance
func NewReportService(completer TextCompleter) *ReportService {
	return &ReportService{completer: completer}
}

// Generate validates params, builds the report prompt and invokes the provider.
// Returned text is never empty on nil error.
func (rs *ReportService) Generate(ctx context.Context, params GenerateReportParams) (string, error) {
	if strings.TrimSpace(params.BookTitle) == "" || strings.TrimSpace(params.Author) == "" {
		return "", models.ErrValidation
	}
	if params.Length <= 0 {
		return "", models.ErrValidation
	}

	maxTokens := params.Length * tokensPerWord
	if maxTokens < minCompletionTokens {
		maxTokens = minCompletionTokens
	}

	text, err := rs.completer.Complete(ctx, systemPrompt, buildReportPrompt(params), maxTokens, reportTemperature)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", models.ErrGenerationFailed
	}

	return text, nil
}

// buildReportPrompt assembles the natural-language instruction for the provider
func buildReportPrompt(params GenerateReportParams) string {
	profile := getEducationProfile(params.GradeLevel)

	gradeTarget := "This report should be of good quality."
	if strings.TrimSpace(params.TargetGrade) != "" {
		gradeTarget = fmt.Sprintf("This report should be of %s quality.", params.TargetGrade)
	}

	realism := "Use correct grammar and spelling appropriate for this education level."
	if params.Realism {
		realism = "Include some minor spelling and grammar mistakes that would be typical for a student at this level. " +
			"Also include occasional awkward phrasing or simple observations along with more insightful ones."
	}

	style := fmt.Sprintf("Use a writing style appropriate for a %s student.", profile.Description)
	if sample := strings.TrimSpace(params.SampleText); sample != "" {
		if len(sample) > sampleQuoteLimit {
			sample = sample[:sampleQuoteLimit]
		}
		style = fmt.Sprintf("Match the writing style of this sample: %q", sample)
	}

	language := params.Language
	if strings.TrimSpace(language) == "" {
		language = defaultLanguage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a book report about %q by %s.\n", params.BookTitle, params.Author)
	fmt.Fprintf(&b, "The report should be approximately %d words long.\n", params.Length)
	fmt.Fprintf(&b, "This report is for a %s student.\n", profile.Description)
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n\n", gradeTarget, realism, style)
	b.WriteString(`The report should include:
1. A brief introduction that mentions the book title, author, and main theme
2. A summary of the plot or key points (without spoiling major endings if fiction)
3. Analysis of main themes or arguments
4. Character analysis (for fiction) or evidence evaluation (for non-fiction)
5. Personal reflection/opinion
6. A conclusion that wraps up the main points

`)
	fmt.Fprintf(&b, "Write in %s.\n", language)
	fmt.Fprintf(&b, "Use vocabulary appropriate for a %s student (%s vocabulary level).\n", profile.Description, profile.VocabularyLevel)
	fmt.Fprintf(&b, "Make the analytical depth %s.\n", profile.AnalyticalDepth)
	fmt.Fprintf(&b, "Create %s.\n", profile.ParagraphStructure)

	return b.String()
}
