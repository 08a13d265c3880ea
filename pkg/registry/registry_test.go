// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ListsAssessmentActivities(t *testing.T) {
	reg := Default()
	require.Len(t, reg.Activities, 6)

	for _, taskType := range []string{
		"validate-assessment-submission",
		"assess-eligibility",
		"record-assessment",
		"index-assessment",
		"notify-assessment-outcome",
		"summarize-assessments",
	} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, "object", a.InputSchema["type"])
		assert.NotEmpty(t, a.ErrorCodes)
	}
}

func TestFind_Unknown(t *testing.T) {
	_, ok := Default().Find("unknown-task")
	assert.False(t, ok)
	assert.Nil(t, InputSchema("unknown-task"))
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"id":"a","taskType":"a"}]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)
	_, ok := reg.Find("a")
	assert.True(t, ok)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{"))
	assert.Error(t, err)
}

func TestValidate_Embedded(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_ReportsProblems(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{
		{ID: "a", DisplayName: "A", Category: "assessment", TaskType: "a", ImplementationStatus: "implemented", Timeout: "10s"},
		{ID: "a", DisplayName: "A", Category: "assessment", TaskType: "a", ImplementationStatus: "done", Timeout: "ten"},
		{ID: "b", DisplayName: "B", Category: "assessment", TaskType: "b", ImplementationStatus: "planned",
			InputSchema: map[string]interface{}{"type": 42}},
	}}

	err := reg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "a: duplicate id")
	assert.Contains(t, msg, "taskType a registered twice")
	assert.Contains(t, msg, `unknown implementationStatus "done"`)
	assert.Contains(t, msg, "a: timeout")
	assert.Contains(t, msg, "b: inputSchema")
}

func TestValidate_Empty(t *testing.T) {
	assert.EqualError(t, (&ActivityRegistry{}).Validate(), "registry contains no activities")
}

func TestActivity_TimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"30s", 30 * time.Second, false},
		{"ten", 0, true},
		{"-5s", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			got, err := Activity{Timeout: tt.timeout}.TimeoutDuration()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActivity_UsedBy(t *testing.T) {
	a, ok := Default().Find("assess-eligibility")
	require.True(t, ok)
	assert.True(t, a.UsedBy("fra-claim-assessment"))
	assert.False(t, a.UsedBy("grant-disbursement"))
}
