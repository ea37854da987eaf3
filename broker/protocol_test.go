package broker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringifyRequest(t *testing.T) {
	require.Equal(t, `request {solve "x"}`, stringifyRequest(`solve "x"`, ""))
	require.Equal(t, `request {solve "x"} with priority=1`, stringifyRequest(`solve "x"`, "priority=1"))
}

func TestRegexTable(t *testing.T) {
	require.True(t, reConfirmRequest.MatchString(`accept request 7 {solve "x"}`))
	require.True(t, reResponse.MatchString(`response 7 1 {1 7ff 500 ""}`))
	require.True(t, reNotifyAssign.MatchString(`notify assign request 7 to worker-1`))
	require.True(t, reNotifyState.MatchString(`notify state busy 2/4`))
	require.True(t, reNotifyState.MatchString(`notify state idle`))
	require.True(t, reNotifyCapacity.MatchString(`notify capacity 4`))
	require.True(t, reConfirmTerminate.MatchString(`accept terminate 7`))
	require.True(t, reConfirmProtocol.MatchString(`accept protocol ok`))
	require.True(t, reMessageFrom.MatchString(`broker >> notify state idle`))
}

func TestJobStringByState(t *testing.T) {
	j := &Job{Command: "solve x"}
	require.Equal(t, "? {solve x}", j.String())

	j.State = JobConfirmed
	j.ID = NullJobID
	require.Equal(t, "X {solve x}", j.String())

	j.ID = 7
	require.Equal(t, "7 {solve x}", j.String())

	j.State = JobAssigned
	j.Output = "worker-1"
	require.Equal(t, "7 {solve x} at worker-1", j.String())

	j.State = JobCompleted
	j.Code = 1
	j.Output = "ok"
	require.Equal(t, `7 {solve x} 1 {ok}`, j.String())
}
