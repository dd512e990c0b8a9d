package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acadops/timetable-api/internal/models"
)

func TestBuildAliasMapCrossListed(t *testing.T) {
	aliases := BuildAliasMap([]models.Course{
		{Code: "CS201 / EC201"},
	})

	assert.Equal(t, "CS201", ResolveAlias(aliases, "CS201"))
	assert.Equal(t, "CS201", ResolveAlias(aliases, "EC201"))
	assert.Equal(t, "CS201", ResolveAlias(aliases, "CS201 / EC201"))
}

func TestBuildAliasMapElectiveGroup(t *testing.T) {
	raw := "B1(ASD151/HS151/New)"
	aliases := BuildAliasMap([]models.Course{{Code: raw}})

	assert.Equal(t, raw, ResolveAlias(aliases, raw))
	assert.Equal(t, raw, ResolveAlias(aliases, "B1"))
	assert.Equal(t, raw, ResolveAlias(aliases, "ASD151"))
	assert.Equal(t, raw, ResolveAlias(aliases, "HS151"))
	assert.Equal(t, raw, ResolveAlias(aliases, "B1_ASD151"))

	// The placeholder term never joins the group.
	assert.Equal(t, "New", ResolveAlias(aliases, "New"))
}

func TestResolveAliasIdempotent(t *testing.T) {
	aliases := BuildAliasMap([]models.Course{
		{Code: "CS201 / EC201"},
		{Code: "B1(ASD151/HS151)"},
		{Code: "MA101"},
	})

	for _, code := range []string{"CS201", "EC201", "ASD151", "MA101", "UNKNOWN"} {
		primary := ResolveAlias(aliases, code)
		assert.Equal(t, primary, ResolveAlias(aliases, primary), "resolution of %q must be stable", code)
	}
}

func TestBuildAliasMapFirstMappingWins(t *testing.T) {
	aliases := BuildAliasMap([]models.Course{
		{Code: "CS201 / EC201"},
		{Code: "EC201 / EE305"},
	})

	// EC201 was claimed by the first group and stays there.
	assert.Equal(t, "CS201", ResolveAlias(aliases, "EC201"))
	assert.Equal(t, "EC201", ResolveAlias(aliases, "EC201 / EE305"))
}

func TestBuildAliasMapPlainCode(t *testing.T) {
	aliases := BuildAliasMap([]models.Course{{Code: " MA101 "}})

	assert.Equal(t, "MA101", ResolveAlias(aliases, "MA101"))
	assert.Equal(t, "ZZ999", ResolveAlias(aliases, "ZZ999"))
}
