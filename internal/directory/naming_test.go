package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mti-it/onboarding-service/internal/domain"
)

var testRules = NamingRules{Org: "MTI", BaseDN: "DC=mti,DC=local"}

func TestUsername_ShortEmailKeptWhole(t *testing.T) {
	assert.Equal(t, "jd@x.com", Username("jd@x.com"))
}

func TestUsername_TruncatedToTwentyCharacters(t *testing.T) {
	got := Username("john.doe.longname@corp.example.com")
	assert.Equal(t, "john.doe.longname@co", got)
	assert.Len(t, got, 20)
}

func TestOUPath_UsesDepartmentName(t *testing.T) {
	assert.Equal(t,
		"OU=Engineering,OU=MTI,DC=mti,DC=local",
		testRules.OUPath("Engineering"))
}

func TestOUPath_CopperCathodeOverride(t *testing.T) {
	assert.Equal(t,
		"OU=CCP,OU=MTI,DC=mti,DC=local",
		testRules.OUPath("Copper Cathode Plant"))
}

func TestGroupName_StripsPlantSuffix(t *testing.T) {
	assert.Equal(t, "ACL MTI Engineering", testRules.GroupName("Engineering Plant"))
	assert.Equal(t, "ACL MTI Finance", testRules.GroupName("Finance"))
}

func TestGroupName_Overrides(t *testing.T) {
	assert.Equal(t, "ACL MTI Copper Cathode", testRules.GroupName("Copper Cathode Plant"))
	assert.Equal(t, "ACL MTI IT", testRules.GroupName("Information Technology"))
}

func TestDisplayName_CarriesOrgTag(t *testing.T) {
	assert.Equal(t, "Jane Doe [MTI]", testRules.DisplayName("Jane Doe"))
}

func TestSpecFor_BuildsCompleteSpec(t *testing.T) {
	hire := &domain.Hire{
		Name:       "Jane Doe",
		Email:      "jane.doe@mti.example.com",
		Title:      "Metallurgist",
		Department: "Copper Cathode Plant",
	}

	spec := testRules.SpecFor(hire)

	assert.Equal(t, "jane.doe@mti.example", spec.Username)
	assert.Equal(t, "Jane Doe [MTI]", spec.DisplayName)
	assert.Equal(t, "OU=CCP,OU=MTI,DC=mti,DC=local", spec.OUPath)
	assert.Equal(t, "ACL MTI Copper Cathode", spec.GroupName)
	assert.Equal(t, "jane.doe@mti.example.com", spec.Email)
	assert.Equal(t, "Metallurgist", spec.Title)
	assert.Equal(t, "Copper Cathode Plant", spec.Department)
}
