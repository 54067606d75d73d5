package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeSoftRepo registra las llamadas de cascada sobre una entidad con
// borrado lógico.
type fakeSoftRepo struct {
	softCalls    []string
	restoreCalls []string
	hardCalls    []string
	failWith     error
}

func (f *fakeSoftRepo) SoftDeleteByCreator(_ context.Context, userID string, _ time.Time) error {
	f.softCalls = append(f.softCalls, userID)
	return f.failWith
}

func (f *fakeSoftRepo) RestoreByCreator(_ context.Context, userID string) error {
	f.restoreCalls = append(f.restoreCalls, userID)
	return f.failWith
}

func (f *fakeSoftRepo) HardDeleteByCreator(_ context.Context, userID string) error {
	f.hardCalls = append(f.hardCalls, userID)
	return f.failWith
}

// fakeHardRepo solo sabe de borrado físico (sin marca de borrado lógico).
type fakeHardRepo struct {
	hardCalls []string
	failWith  error
}

func (f *fakeHardRepo) HardDeleteByCreator(_ context.Context, userID string) error {
	f.hardCalls = append(f.hardCalls, userID)
	return f.failWith
}

func TestCascader_SoftDelete_DegradesHardOnlyEntities(t *testing.T) {
	soft := &fakeSoftRepo{}
	hard := &fakeHardRepo{}
	c := NewCascader([]Entry{
		{Entity: "person_profile", Soft: soft},
		{Entity: "invitation", Hard: hard},
	})

	outcomes := c.SoftDelete(context.Background(), "u1", time.Now().UTC())

	require.Len(t, outcomes, 2)
	require.Equal(t, ActionSoftDelete, outcomes[0].Action)
	// La entidad sin marca de borrado lógico degrada a borrado físico.
	require.Equal(t, ActionHardDelete, outcomes[1].Action)
	require.Equal(t, []string{"u1"}, soft.softCalls)
	require.Equal(t, []string{"u1"}, hard.hardCalls)
	require.False(t, Failed(outcomes))
}

func TestCascader_Restore_SkipsDegradedEntities(t *testing.T) {
	soft := &fakeSoftRepo{}
	hard := &fakeHardRepo{}
	c := NewCascader([]Entry{
		{Entity: "post", Soft: soft},
		{Entity: "invitation", Hard: hard},
	})

	outcomes := c.Restore(context.Background(), "u1")

	require.Equal(t, ActionRestore, outcomes[0].Action)
	require.Equal(t, ActionSkip, outcomes[1].Action)
	require.Equal(t, []string{"u1"}, soft.restoreCalls)
	// Lo borrado físicamente no participa de la restauración.
	require.Empty(t, hard.hardCalls)
}

func TestCascader_ContinuesAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := &fakeSoftRepo{failWith: boom}
	ok := &fakeSoftRepo{}
	c := NewCascader([]Entry{
		{Entity: "person_profile", Soft: failing},
		{Entity: "company_profile", Soft: ok},
	})

	outcomes := c.SoftDelete(context.Background(), "u1", time.Now().UTC())

	// El fallo de la primera entidad no corta la cascada.
	require.ErrorIs(t, outcomes[0].Err, boom)
	require.NoError(t, outcomes[1].Err)
	require.Equal(t, []string{"u1"}, ok.softCalls)
	require.True(t, Failed(outcomes))
}

func TestCascader_HardDelete_CoversAllEntries(t *testing.T) {
	soft := &fakeSoftRepo{}
	hard := &fakeHardRepo{}
	c := NewCascader([]Entry{
		{Entity: "post", Soft: soft},
		{Entity: "invitation", Hard: hard},
	})

	outcomes := c.HardDelete(context.Background(), "u9")

	for _, o := range outcomes {
		require.Equal(t, ActionHardDelete, o.Action)
		require.NoError(t, o.Err)
	}
	require.Equal(t, []string{"u9"}, soft.hardCalls)
	require.Equal(t, []string{"u9"}, hard.hardCalls)
}
