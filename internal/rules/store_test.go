package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

func TestRulesForOrdersByPriorityWithInsertionTies(t *testing.T) {
	store := NewStore([]entity.PatternRule{
		{ID: 1, Name: "third", Field: constants.FieldAmount, Pattern: `(\d+)`, Priority: 30, Enabled: true},
		{ID: 2, Name: "first", Field: constants.FieldAmount, Pattern: `(\d+)`, Priority: 10, Enabled: true},
		{ID: 3, Name: "second-a", Field: constants.FieldAmount, Pattern: `(\d+)`, Priority: 20, Enabled: true},
		{ID: 4, Name: "second-b", Field: constants.FieldAmount, Pattern: `(\d+)`, Priority: 20, Enabled: true},
	}, nil)

	rs, err := store.RulesFor(constants.FieldAmount)
	require.NoError(t, err)
	require.Len(t, rs, 4)
	assert.Equal(t, "first", rs[0].Name)
	assert.Equal(t, "second-a", rs[1].Name)
	assert.Equal(t, "second-b", rs[2].Name)
	assert.Equal(t, "third", rs[3].Name)
}

func TestDisabledRulesAreExcluded(t *testing.T) {
	store := NewStore([]entity.PatternRule{
		{ID: 1, Name: "on", Field: constants.FieldCustomerEmail, Pattern: `(\S+@\S+)`, Priority: 10, Enabled: true},
		{ID: 2, Name: "off", Field: constants.FieldCustomerEmail, Pattern: `(\S+)`, Priority: 5, Enabled: false},
	}, nil)

	rs, err := store.RulesFor(constants.FieldCustomerEmail)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "on", rs[0].Name)
}

func TestRulesForUnconfiguredFieldReturnsConfigurationError(t *testing.T) {
	store := NewStore(nil, nil)

	_, err := store.RulesFor(constants.FieldPlateNumber)
	require.Error(t, err)
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, constants.FieldPlateNumber, confErr.Field)
}

func TestInvalidPatternIsSkippedNotFatal(t *testing.T) {
	store := NewStore([]entity.PatternRule{
		{ID: 1, Name: "broken", Field: constants.FieldBrand, Pattern: `([unclosed`, Priority: 10, Enabled: true},
		{ID: 2, Name: "valid", Field: constants.FieldBrand, Pattern: `(MICHELIN)`, Priority: 20, Enabled: true},
	}, nil)

	rs, err := store.RulesFor(constants.FieldBrand)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "valid", rs[0].Name)
}

func TestReplaceInstallsNewSnapshotAndBumpsVersion(t *testing.T) {
	store := NewStore([]entity.PatternRule{
		{ID: 1, Name: "old", Field: constants.FieldQuantity, Pattern: `(\d+)`, Priority: 10, Enabled: true},
	}, nil)
	v1 := store.Version()

	store.Replace([]entity.PatternRule{
		{ID: 2, Name: "new", Field: constants.FieldQuantity, Pattern: `QTY:(\d+)`, Priority: 10, Enabled: true},
	})

	assert.Greater(t, store.Version(), v1)
	rs, err := store.RulesFor(constants.FieldQuantity)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "new", rs[0].Name)
}

type staticRepo struct {
	rules []entity.PatternRule
}

func (r staticRepo) ActiveRules(context.Context) ([]entity.PatternRule, error) {
	return r.rules, nil
}

func TestReloadPullsRulesFromRepository(t *testing.T) {
	store := NewStore(nil, nil)
	repo := staticRepo{rules: []entity.PatternRule{
		{ID: 1, Name: "loaded", Field: constants.FieldAmount, Pattern: `(\d+\.\d{2})`, Priority: 10, Enabled: true},
	}}

	require.NoError(t, store.Reload(context.Background(), repo))

	rs, err := store.RulesFor(constants.FieldAmount)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "loaded", rs[0].Name)
}

func TestDefaultRulesAllCompile(t *testing.T) {
	defaults := DefaultRules()
	require.NotEmpty(t, defaults)

	store := NewStore(defaults, nil)
	seen := map[constants.FieldKind]bool{}
	for _, r := range defaults {
		seen[r.Field] = true
	}
	for field := range seen {
		rs, err := store.RulesFor(field)
		require.NoError(t, err, "field %s", field)
		var want int
		for _, r := range defaults {
			if r.Field == field {
				want++
			}
		}
		assert.Len(t, rs, want, "field %s lost rules to compilation", field)
	}
}
