package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchJob_Validate(t *testing.T) {
	valid := DispatchJob{To: "a@b.co", Quote: "q", Author: "a"}

	tests := []struct {
		name      string
		mutate    func(j *DispatchJob)
		wantField string
	}{
		{"valid", func(*DispatchJob) {}, ""},
		{"blank recipient", func(j *DispatchJob) { j.To = "  " }, "to"},
		{"blank quote", func(j *DispatchJob) { j.Quote = "" }, "quote"},
		{"blank author", func(j *DispatchJob) { j.Author = "\t" }, "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := valid
			tt.mutate(&job)

			err := job.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestDateLabel(t *testing.T) {
	d := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "Wednesday, January 1, 2025", DateLabel(d))
}

func TestDispatchReport_Failed(t *testing.T) {
	r := &DispatchReport{Failures: []DispatchFailure{{Email: "x@y.z", Error: "boom"}}}

	assert.Equal(t, 1, r.Failed())
}
