package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeClassification(t *testing.T) {
	tests := []struct {
		code       StatusCode
		nonWorking bool
		location   bool
		remote     bool
		plan       bool
	}{
		{CodeWork, false, true, false, true},
		{CodeDayOff, true, false, false, true},
		{CodeVacation, true, false, false, true},
		{CodeSickLeave, true, false, false, true},
		{CodeBusinessTrip, true, false, false, true},
		{CodeStudyLeave, true, false, false, true},
		{CodeRemoteFull, false, true, true, false},
		{CodeOfficeToRemote, false, true, true, false},
		{CodeRemoteToOffice, false, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.code.Name(), func(t *testing.T) {
			assert.True(t, tt.code.IsValid())
			assert.Equal(t, tt.nonWorking, tt.code.IsNonWorking())
			assert.Equal(t, tt.location, tt.code.IsLocation())
			assert.Equal(t, tt.remote, tt.code.HasRemote())
			assert.Equal(t, tt.plan, tt.code.IsPlanCode())
		})
	}
	assert.Len(t, AllStatusCodes(), len(tests))
}

func TestParseStatusCode(t *testing.T) {
	code, err := ParseStatusCode("ЯД")
	require.NoError(t, err)
	assert.Equal(t, CodeOfficeToRemote, code)

	code, err = ParseStatusCode(" Sick-Leave ")
	require.NoError(t, err)
	assert.Equal(t, CodeSickLeave, code)

	_, err = ParseStatusCode("X")
	assert.Error(t, err)
	assert.False(t, StatusCode("").IsValid())
}

func TestParseEmploymentMode(t *testing.T) {
	mode, err := ParseEmploymentMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeOfficeFixed, mode)

	mode, err = ParseEmploymentMode("always_remote")
	require.NoError(t, err)
	assert.Equal(t, ModeAlwaysRemote, mode)

	_, err = ParseEmploymentMode("HYBRID")
	assert.Error(t, err)
}

func TestOverrideFromCode(t *testing.T) {
	o, err := OverrideFromCode("")
	require.NoError(t, err)
	assert.False(t, o.IsSet())
	assert.Equal(t, StatusCode(""), o.StoredCode())

	o, err = OverrideFromCode(CodeRemoteToOffice)
	require.NoError(t, err)
	assert.Equal(t, OverrideLocation, o.Kind)
	assert.Equal(t, CodeRemoteToOffice, o.StoredCode())

	o, err = OverrideFromCode(CodeWork)
	require.NoError(t, err)
	assert.Equal(t, LocationOverride(CodeOfficeFull), o)

	o, err = OverrideFromCode(CodeStudyLeave)
	require.NoError(t, err)
	assert.Equal(t, DayStatusOverride(CodeStudyLeave), o)
	assert.Equal(t, "day-status", o.Kind.String())

	_, err = OverrideFromCode("Z")
	assert.Error(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:00", "09:00"},
		{"9:05", "09:05"},
		{"14.30", "14:30"},
		{"23:59:00", "23:59"},
		{" 0:00 ", "00:00"},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String())
	}

	for _, bad := range []string{"", "24:00", "12:60", "noon", "9am"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	assert.Equal(t, "14:00", MustTime("13:00").AddMinutes(60).String())
	assert.Equal(t, "00:15", MustTime("23:45").AddMinutes(30).String())
	assert.Equal(t, "23:50", MustTime("00:10").AddMinutes(-20).String())
	assert.Equal(t, 570, MustTime("09:30").Minutes())
}

func TestTimeOfDayJSONAndSQL(t *testing.T) {
	data, err := json.Marshal(struct {
		Start *TimeOfDay `json:"start"`
		End   *TimeOfDay `json:"end"`
	}{Start: TimePtr("08:05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"08:05","end":null}`, string(data))

	var decoded struct {
		Start *TimeOfDay `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"18.45"}`), &decoded))
	assert.Equal(t, "18:45", decoded.Start.String())
	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &decoded))

	var scanned TimeOfDay
	require.NoError(t, scanned.Scan([]byte("07:30")))
	assert.Equal(t, "07:30", scanned.String())
	assert.Error(t, scanned.Scan(42))

	v, err := MustTime("07:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "07:30", v)
}
