package domain

import (
	"fmt"
	"strings"
)

// ResourceType is the closed set of minable resources.
type ResourceType string

const (
	ResourceNickel    ResourceType = "nickel"
	ResourceCobalt    ResourceType = "cobalt"
	ResourceCopper    ResourceType = "copper"
	ResourceManganese ResourceType = "manganese"
)

// ResourceTypes lists every resource type in ascending conversion-rate order.
// Balance debits walk this order.
var ResourceTypes = []ResourceType{
	ResourceNickel,
	ResourceCopper,
	ResourceManganese,
	ResourceCobalt,
}

// ParseResourceType maps user input onto the closed set.
func ParseResourceType(s string) (ResourceType, error) {
	switch rt := ResourceType(strings.ToLower(strings.TrimSpace(s))); rt {
	case ResourceNickel, ResourceCobalt, ResourceCopper, ResourceManganese:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceType, s)
	}
}

// Valid reports whether rt belongs to the closed set.
func (rt ResourceType) Valid() bool {
	switch rt {
	case ResourceNickel, ResourceCobalt, ResourceCopper, ResourceManganese:
		return true
	default:
		return false
	}
}

func (rt ResourceType) String() string {
	return string(rt)
}

// Rarity of a node. Purely informational for the economy core.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)
