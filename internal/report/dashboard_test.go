package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) *Report {
	t.Helper()
	var r Report
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return &r
}

func TestProject_MockResponseOnly(t *testing.T) {
	r := decode(t, `{"mock_response":{"tone":85,"confidence":55,"total_marks":70}}`)

	d := Project(r)

	_, hasResume := d.Section(SectionResume)
	assert.False(t, hasResume, "no resume-analysis section expected")
	assert.Nil(t, d.Prediction)
	assert.Empty(t, d.Resources)

	sec, ok := d.Section(SectionInterview)
	require.True(t, ok)
	bands := map[string]Band{}
	for _, c := range sec.Cards {
		bands[c.Key] = c.Band
	}
	assert.Equal(t, map[string]Band{
		"tone":        BandHigh,
		"confidence":  BandLow,
		"total_marks": BandMedium,
	}, bands)
}

func TestProject_FullReport(t *testing.T) {
	r := decode(t, `{
		"resume_analysis": {
			"is_valid_resume": true,
			"is_valid_job_description": true,
			"clarity": 82, "relevance": 64, "structure": 40, "experience": 3,
			"feedback": ["Quantify impact", "  "]
		},
		"mock_response": {
			"tone": 90, "confidence": 75, "relevance": 60, "total_marks": 74.5,
			"feedback": "Use the STAR format."
		},
		"success_prediction": {"score": 68, "justification": "Solid but uneven."},
		"gap_fixer": {
			"summary": "Good foundation.",
			"improvements": ["Practice conflict stories"],
			"links": ["https://example.com/star"]
		}
	}`)

	d := Project(r)

	require.NotNil(t, d.Prediction)
	assert.Equal(t, 68.0, d.Prediction.Score)
	assert.Equal(t, BandMedium, d.Prediction.Band)
	assert.Equal(t, []string{"Solid but uneven."}, d.Prediction.Justification)

	resume, ok := d.Section(SectionResume)
	require.True(t, ok)
	require.Len(t, resume.Cards, 4)
	exp := resume.Cards[3]
	assert.Equal(t, "experience", exp.Key)
	assert.Equal(t, "Experience (3 years)", exp.Title)
	assert.Equal(t, 3.0, exp.Raw)
	assert.Equal(t, 60.0, exp.Score)
	assert.Equal(t, BandMedium, exp.Band)
	assert.Equal(t, BandLow, resume.Cards[2].Band)

	interview, ok := d.Section(SectionInterview)
	require.True(t, ok)
	assert.Len(t, interview.Cards, 4)

	require.Len(t, d.Feedback, 4)
	assert.Equal(t, FeedbackBlock{Title: "Resume Improvements", Items: []string{"Quantify impact"}}, d.Feedback[0])
	assert.Equal(t, FeedbackBlock{Title: "Interview Tips", Items: []string{"Use the STAR format."}}, d.Feedback[1])
	assert.Equal(t, "Overall Assessment", d.Feedback[2].Title)
	assert.Equal(t, "Key Improvements", d.Feedback[3].Title)
	assert.Equal(t, []string{"https://example.com/star"}, d.Resources)
	assert.Empty(t, d.Notice)
}

func TestProject_EmptyAndNil(t *testing.T) {
	assert.True(t, Project(nil).Empty())
	assert.True(t, Project(&Report{}).Empty())
	assert.True(t, Project(decode(t, `{}`)).Empty())
}

func TestProject_GapFixerFieldsIndependent(t *testing.T) {
	d := Project(decode(t, `{"gap_fixer":{"links":["https://a.example"]}}`))
	assert.Empty(t, d.Feedback)
	assert.Equal(t, []string{"https://a.example"}, d.Resources)
}

func TestProject_ExperienceCapped(t *testing.T) {
	d := Project(decode(t, `{"resume_analysis":{"experience":8}}`))
	sec, ok := d.Section(SectionResume)
	require.True(t, ok)
	require.Len(t, sec.Cards, 1)
	assert.Equal(t, 100.0, sec.Cards[0].Score)
	assert.Equal(t, BandHigh, sec.Cards[0].Band)
}

func TestProject_InvalidInputNotice(t *testing.T) {
	d := Project(decode(t, `{"resume_analysis":{"is_valid_resume":false,"validation_message":"Not a resume."}}`))
	assert.Equal(t, "Not a resume.", d.Notice)
	_, ok := d.Section(SectionResume)
	assert.False(t, ok, "section without scores is not rendered")
}

func TestReportUnmarshal_Tolerant(t *testing.T) {
	r := decode(t, `{
		"resume_analysis": "oops",
		"mock_response": {"tone": "85", "confidence": "55%", "relevance": "NaN"},
		"success_prediction": null,
		"gap_fixer": {"summary": ["a", 3, "b"]}
	}`)

	assert.Nil(t, r.ResumeAnalysis)
	assert.Nil(t, r.SuccessPrediction)
	require.NotNil(t, r.MockResponse)
	assert.Equal(t, Score(85), *r.MockResponse.Tone)
	assert.Equal(t, Score(55), *r.MockResponse.Confidence)
	assert.Nil(t, r.MockResponse.Relevance)
	require.NotNil(t, r.GapFixer)
	assert.Equal(t, FeedbackList{"a", "b"}, r.GapFixer.Summary)
}

func TestReportUnmarshal_BadFieldKeepsSiblings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		// check runs against the decoded report.
		check func(t *testing.T, r *Report)
	}{
		{
			name: "unparseable score",
			raw:  `{"resume_analysis":{"clarity":"N/A","relevance":80,"feedback":["Add metrics"]}}`,
			check: func(t *testing.T, r *Report) {
				require.NotNil(t, r.ResumeAnalysis)
				assert.Nil(t, r.ResumeAnalysis.Clarity)
				require.NotNil(t, r.ResumeAnalysis.Relevance)
				assert.Equal(t, Score(80), *r.ResumeAnalysis.Relevance)
				assert.Equal(t, FeedbackList{"Add metrics"}, r.ResumeAnalysis.Feedback)

				d := Project(r)
				sec, ok := d.Section(SectionResume)
				require.True(t, ok)
				require.Len(t, sec.Cards, 1)
				assert.Equal(t, 80.0, sec.Cards[0].Score)
				assert.NotEmpty(t, d.Feedback)
			},
		},
		{
			name: "non-finite scores",
			raw:  `{"mock_response":{"tone":"NaN","total_marks":"Inf","confidence":"+Inf","relevance":70}}`,
			check: func(t *testing.T, r *Report) {
				require.NotNil(t, r.MockResponse)
				assert.Nil(t, r.MockResponse.Tone)
				assert.Nil(t, r.MockResponse.TotalMarks)
				assert.Nil(t, r.MockResponse.Confidence)
				require.NotNil(t, r.MockResponse.Relevance)

				_, err := json.Marshal(r)
				assert.NoError(t, err)
			},
		},
		{
			name: "feedback not a list",
			raw:  `{"mock_response":{"tone":90,"feedback":{"x":1}}}`,
			check: func(t *testing.T, r *Report) {
				require.NotNil(t, r.MockResponse)
				assert.Empty(t, r.MockResponse.Feedback)
				assert.Equal(t, Score(90), *r.MockResponse.Tone)
			},
		},
		{
			name: "validity flag not a bool",
			raw:  `{"resume_analysis":{"is_valid_resume":"maybe","validation_message":"Check it","clarity":70}}`,
			check: func(t *testing.T, r *Report) {
				require.NotNil(t, r.ResumeAnalysis)
				assert.Nil(t, r.ResumeAnalysis.IsValidResume)
				assert.Equal(t, "Check it", r.ResumeAnalysis.ValidationMessage)
				assert.Equal(t, Score(70), *r.ResumeAnalysis.Clarity)
			},
		},
		{
			name: "other sections unaffected",
			raw:  `{"mock_response":{"tone":"great"},"gap_fixer":{"summary":"ok"}}`,
			check: func(t *testing.T, r *Report) {
				require.NotNil(t, r.MockResponse)
				assert.Nil(t, r.MockResponse.Tone)
				require.NotNil(t, r.GapFixer)
				assert.Equal(t, FeedbackList{"ok"}, r.GapFixer.Summary)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, decode(t, tt.raw))
		})
	}
}

func TestReportUnmarshal_NotObject(t *testing.T) {
	var r Report
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
}

func TestReportRoundTripKeys(t *testing.T) {
	r := &Report{MockResponse: &MockResponse{Tone: NewScore(85)}}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mock_response":{"tone":85}}`, string(b))
}

func TestHeadlineScore(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{"total marks", `{"mock_response":{"total_marks":72},"success_prediction":{"score":40}}`, 72, true},
		{"prediction fallback", `{"success_prediction":{"score":"64"}}`, 64, true},
		{"empty", `{}`, 0, false},
		{"garbage", `not json`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HeadlineScore(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
