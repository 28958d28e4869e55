package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"territorykeeper/internal/client/models"
	"territorykeeper/internal/common"
)

// DefaultReportAttempts bounds the retry loop against the report endpoint.
const DefaultReportAttempts = 5

// ReportService turns a record's data into a narrative markdown report via
// an external text-generation endpoint. Rate-limited calls are retried
// with exponential backoff and jitter up to the attempt ceiling; any other
// failure, including an empty or malformed response, is terminal and no
// partial output is ever returned.
type ReportService struct {
	endpoint string
	apiKey   string
	attempts int
	http     *http.Client

	// backoffBase is the first retry delay; tests shrink it.
	backoffBase time.Duration
}

// NewReportService builds a service for the endpoint (the API key is
// appended as the endpoint's trailing query value, matching the
// generativelanguage URL scheme).
func NewReportService(endpoint, apiKey string, attempts int) *ReportService {
	if attempts <= 0 {
		attempts = DefaultReportAttempts
	}
	return &ReportService{
		endpoint:    endpoint,
		apiKey:      apiKey,
		attempts:    attempts,
		http:        &http.Client{Timeout: 60 * time.Second},
		backoffBase: time.Second,
	}
}

const reportSystemPrompt = `You are a professional territory analyst and report writer. Your task is to analyze house-to-house records and generate a concise, encouraging report based ONLY on the data provided below. The report must be formatted in clean Markdown.

The report MUST include:
1. A bold summary of the territory's identity (Street and Territory Number).
2. Key statistics (Total entries, Not Home (NH) count, Call Again (CA) count).
3. A thematic summary of the remarks (identify 2-3 common themes, interests, or demographics noted in the remarks).
4. A suggested next step or encouraging closing statement for the publisher.`

// request/response bodies of the text-generation endpoint.
type reportPart struct {
	Text string `json:"text"`
}

type reportContent struct {
	Parts []reportPart `json:"parts"`
}

type reportRequest struct {
	Contents          []reportContent `json:"contents"`
	SystemInstruction reportContent   `json:"systemInstruction"`
}

type reportResponse struct {
	Candidates []struct {
		Content reportContent `json:"content"`
	} `json:"candidates"`
}

// BuildPrompt renders the user part of the prompt from the record header,
// its aggregated stats and the concatenated remarks.
func BuildPrompt(rec *models.Record, stats models.Stats) string {
	var remarks []string
	for _, row := range rec.Rows {
		if row.Remarks != "" {
			remarks = append(remarks, row.Remarks)
		}
	}
	allRemarks := strings.Join(remarks, "; ")
	if allRemarks == "" {
		allRemarks = "No detailed remarks were provided."
	}

	street := rec.Street
	if street == "" {
		street = "N/A"
	}
	terrNo := rec.TerrNo
	if terrNo == "" {
		terrNo = "N/A"
	}

	return fmt.Sprintf(`Analyze the following territory record data:
Street: %s
Territory No: %s
Total Entries: %d
Not Home (NH) Count: %d
Call Again (CA) Count: %d
All Remarks: %q`,
		street, terrNo, stats.Total, stats.NotHome, stats.CallAgain, allRemarks)
}

// Generate produces the markdown report for the record. The API key must
// be configured; retries apply only to HTTP 429 replies.
func (s *ReportService) Generate(ctx context.Context, rec *models.Record) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: report API key is not set", common.ErrorReportFailed)
	}

	stats := models.CalcStats(rec.Rows)
	payload := reportRequest{
		Contents:          []reportContent{{Parts: []reportPart{{Text: BuildPrompt(rec, stats)}}}},
		SystemInstruction: reportContent{Parts: []reportPart{{Text: reportSystemPrompt}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal report request: %w", err)
	}

	backoff := retry.WithJitter(s.backoffBase/2, retry.NewExponential(s.backoffBase))
	backoff = retry.WithMaxRetries(uint64(s.attempts-1), backoff)

	var report string
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+s.apiKey, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return retry.RetryableError(fmt.Errorf("report endpoint rate-limited"))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("report endpoint returned %s", resp.Status)
		}

		var parsed reportResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("malformed report response: %w", err)
		}
		if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
			parsed.Candidates[0].Content.Parts[0].Text == "" {
			return fmt.Errorf("report response was empty")
		}

		report = parsed.Candidates[0].Content.Parts[0].Text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorReportFailed, err)
	}
	return report, nil
}
