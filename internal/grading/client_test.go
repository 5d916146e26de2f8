package grading

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"greencycle/internal/domain"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func gradedResponse(text string) *http.Response {
	body := `{"candidates":[{"content":{"parts":[{"text":` + strconvQuote(text) + `}]}}]}`
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestClient(t *testing.T, rt roundTripperFunc, sleeps *[]time.Duration) *Client {
	t.Helper()
	return NewClient(Options{
		APIKey:     "test-key",
		Model:      "gemini-2.5-flash",
		HTTPClient: &http.Client{Transport: rt},
		Sleep: func(d time.Duration) {
			if sleeps != nil {
				*sleeps = append(*sleeps, d)
			}
		},
	})
}

func TestGradeMapsVerdictText(t *testing.T) {
	cases := []struct {
		text string
		want domain.Grade
	}{
		{"Grade A", domain.GradeA},
		{"This garment is Grade A quality.", domain.GradeA},
		{"Grade B/C", domain.GradeBC},
		{"Definitely Grade B/C, heavy staining.", domain.GradeBC},
		{"I cannot tell.", domain.GradeUnavailable},
		{"", domain.GradeUnavailable},
	}
	for _, tc := range cases {
		calls := 0
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			calls++
			return gradedResponse(tc.text), nil
		}, nil)
		got := client.Grade(context.Background(), []byte("img"), "image/png")
		if got != tc.want {
			t.Fatalf("Grade(%q) = %q, want %q", tc.text, got, tc.want)
		}
		if calls != 1 {
			t.Fatalf("text %q: %d calls, want 1 (uninterpretable answers must not be retried)", tc.text, calls)
		}
	}
}

func TestGradeRequestPayload(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}
	var captured *http.Request
	var capturedBody []byte
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		captured = r
		capturedBody, _ = io.ReadAll(r.Body)
		return gradedResponse("Grade A"), nil
	}, nil)

	client.Grade(context.Background(), image, "image/png")

	if captured == nil {
		t.Fatalf("no request sent")
	}
	if got := captured.URL.Path; !strings.HasSuffix(got, "/models/gemini-2.5-flash:generateContent") {
		t.Fatalf("path = %q", got)
	}
	if got := captured.Header.Get("x-goog-api-key"); got != "test-key" {
		t.Fatalf("api key header = %q", got)
	}

	var req geminiRequest
	if err := json.Unmarshal(capturedBody, &req); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) != 1 {
		t.Fatalf("missing system instruction: %+v", req.SystemInstruction)
	}
	if !strings.Contains(req.SystemInstruction.Parts[0].Text, "clothing grader") {
		t.Fatalf("system instruction text = %q", req.SystemInstruction.Parts[0].Text)
	}
	if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected contents shape: %+v", req.Contents)
	}
	inline := req.Contents[0].Parts[1].InlineData
	if inline == nil || inline.MimeType != "image/png" {
		t.Fatalf("inline data = %+v", inline)
	}
	decoded, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil || string(decoded) != string(image) {
		t.Fatalf("inline data not base64 of image: %v %q", err, decoded)
	}
}

func TestGradeRetriesWithExponentialBackoff(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return &http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(strings.NewReader("overloaded"))}, nil
		}
		return gradedResponse("Grade B/C"), nil
	}, &sleeps)

	got := client.Grade(context.Background(), []byte("img"), "image/jpeg")

	if got != domain.GradeBC {
		t.Fatalf("grade = %q, want Grade B/C", got)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("sleep[%d] = %s, want %s", i, sleeps[i], want[i])
		}
	}
}

func TestGradeExhaustsAttemptBudget(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return nil, io.ErrUnexpectedEOF
	}, &sleeps)

	got := client.Grade(context.Background(), []byte("img"), "image/jpeg")

	if got != domain.GradeUnavailable {
		t.Fatalf("grade = %q, want N/A", got)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 backoff waits, got %v", sleeps)
	}
}

func TestGradeTreatsMalformedBodyAsTransportFailure(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("<html>gateway error</html>"))}, nil
		}
		return gradedResponse("Grade A"), nil
	}, &[]time.Duration{})

	if got := client.Grade(context.Background(), []byte("img"), "image/jpeg"); got != domain.GradeA {
		t.Fatalf("grade = %q, want Grade A", got)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestGradeEmptyImageSkipsCall(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return gradedResponse("Grade A"), nil
	}, nil)

	if got := client.Grade(context.Background(), nil, "image/jpeg"); got != domain.GradeUnavailable {
		t.Fatalf("grade = %q, want N/A", got)
	}
	if calls != 0 {
		t.Fatalf("expected no API call for an unreadable image, got %d", calls)
	}
}

func TestGradeStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		cancel()
		return nil, context.Canceled
	}, &[]time.Duration{})

	if got := client.Grade(ctx, []byte("img"), "image/jpeg"); got != domain.GradeUnavailable {
		t.Fatalf("grade = %q, want N/A", got)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry after cancellation)", calls)
	}
}
