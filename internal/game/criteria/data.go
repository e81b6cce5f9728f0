package criteria

import "fmt"

// ComparisonType is the operator of a value-compare gating row.
type ComparisonType uint32

const (
	CompareEqual ComparisonType = iota
	CompareHigh
	CompareLow
	CompareHighEqual
	CompareLowEqual
)

// Compare applies the comparison as "value <op> reference".
func (c ComparisonType) Compare(value, reference uint64) bool {
	switch c {
	case CompareEqual:
		return value == reference
	case CompareHigh:
		return value > reference
	case CompareLow:
		return value < reference
	case CompareHighEqual:
		return value >= reference
	case CompareLowEqual:
		return value <= reference
	default:
		return false
	}
}

// Team ids used by gating rows.
const (
	TeamIDHorde    = 67
	TeamIDAlliance = 469
)

// Drunken states by increasing inebriation.
const (
	DrunkenSober uint32 = iota
	DrunkenTipsy
	DrunkenDrunk
	DrunkenSmashed
)

// DrunkenStateFor maps a raw inebriation value to its drunken state.
func DrunkenStateFor(value uint32) uint32 {
	switch {
	case value >= 90:
		return DrunkenSmashed
	case value >= 50:
		return DrunkenDrunk
	case value != 0:
		return DrunkenTipsy
	default:
		return DrunkenSober
	}
}

// ValidateCriteriaData checks that a gating row has a known type and
// well-formed arguments.
func ValidateCriteriaData(row CriteriaDataRecord) error {
	switch row.Type {
	case DataTypeNone,
		DataTypeTargetCreature,
		DataTypeSourceAura,
		DataTypeTargetAura,
		DataTypeTargetLevel,
		DataTypeMapPlayerCount,
		DataTypeHoliday,
		DataTypeSourceEquippedItem,
		DataTypeMapID,
		DataTypeSourceKnownTitle,
		DataTypeGameEvent:
		return nil
	case DataTypeTargetClassRace, DataTypeSourceClassRace:
		if row.Value1 == 0 && row.Value2 == 0 {
			return fmt.Errorf("data type %d requires a class or a race", row.Type)
		}
		return nil
	case DataTypeTargetLessHealth:
		if row.Value1 > 100 {
			return fmt.Errorf("health percent %d out of range", row.Value1)
		}
		return nil
	case DataTypeValue:
		if ComparisonType(row.Value2) > CompareLowEqual {
			return fmt.Errorf("unknown comparison type %d", row.Value2)
		}
		return nil
	case DataTypeTargetGender:
		if row.Value1 > 2 {
			return fmt.Errorf("unknown gender %d", row.Value1)
		}
		return nil
	case DataTypeScript:
		if row.ScriptName == "" {
			return fmt.Errorf("script data type requires a script name")
		}
		return nil
	case DataTypeTargetTeam:
		if row.Value1 != TeamIDHorde && row.Value1 != TeamIDAlliance {
			return fmt.Errorf("unknown team %d", row.Value1)
		}
		return nil
	case DataTypeSourceDrunk:
		if row.Value1 > DrunkenSmashed {
			return fmt.Errorf("unknown drunken state %d", row.Value1)
		}
		return nil
	case DataTypeSourceItemQuality:
		if row.Value1 > 8 {
			return fmt.Errorf("unknown item quality %d", row.Value1)
		}
		return nil
	default:
		return fmt.Errorf("unknown criteria data type %d", row.Type)
	}
}
