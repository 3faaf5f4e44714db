package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccessPolicy(t *testing.T) {
	cases := []struct {
		in      string
		want    AccessPolicy
		wantErr bool
	}{
		{"firstOnly", AccessFirstOnly, false},
		{"allAccessible", AccessAll, false},
		{"", AccessFirstOnly, false},
		{"everyone", "", true},
	}
	for _, tc := range cases {
		got, err := ParseAccessPolicy(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()

	t.Run("nil patch keeps everything", func(t *testing.T) {
		assert.True(t, base.Merge(ConfigPatch{}).Equal(base))
	})

	t.Run("sections replace independently", func(t *testing.T) {
		off := ValidationConfig{}
		merged := base.Merge(ConfigPatch{Validation: &off})
		assert.False(t, merged.Validation.GoToStep.CanAccess)
		assert.Equal(t, base.Policy, merged.Policy)
		assert.Equal(t, base.Navigation, merged.Navigation)
	})

	t.Run("navigation override round-trips", func(t *testing.T) {
		yes := true
		nav := NavigationConfig{Next: NextOverrides{NextStep: StepPatch{CanAccess: &yes}}}
		merged := base.Merge(ConfigPatch{Navigation: &nav})
		require.NotNil(t, merged.Navigation.Next.NextStep.CanAccess)
		assert.True(t, *merged.Navigation.Next.NextStep.CanAccess)
	})
}

func TestConfig_Equal(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	assert.True(t, a.Equal(b))

	yes := true
	b.Navigation.Prev.PrevStep.CanEdit = &yes
	assert.False(t, a.Equal(b))
}
