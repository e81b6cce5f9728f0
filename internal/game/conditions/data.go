package conditions

import (
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// DataSatisfied reports whether every criteria data row attached to c holds.
func (e *Evaluator) DataSatisfied(c *criteria.Criteria, ctx Context) bool {
	for _, row := range c.Data {
		if !e.dataRow(row, ctx) {
			e.logger.Debug("criteria data not met",
				zap.Uint32("criteria_id", c.ID),
				zap.Uint8("data_type", uint8(row.Type)),
			)
			return false
		}
	}
	return true
}

func (e *Evaluator) dataRow(row criteria.CriteriaDataRecord, ctx Context) bool {
	source := ctx.Player
	target := ctx.Target
	switch row.Type {
	case criteria.DataTypeNone:
		return true
	case criteria.DataTypeTargetCreature:
		return target != nil && !target.IsPlayer() && target.Entry() == row.Value1
	case criteria.DataTypeTargetClassRace:
		if target == nil || !target.IsPlayer() {
			return false
		}
		return classRaceMatches(target, row)
	case criteria.DataTypeSourceClassRace:
		if source == nil {
			return false
		}
		return classRaceMatches(source, row)
	case criteria.DataTypeTargetLessHealth:
		if target == nil || !target.IsPlayer() {
			return false
		}
		return world.SafeHealthPct(target) <= float64(row.Value1)
	case criteria.DataTypeSourceAura:
		return source != nil && source.HasAura(row.Value1)
	case criteria.DataTypeTargetAura:
		return target != nil && target.HasAura(row.Value1)
	case criteria.DataTypeValue:
		return criteria.ComparisonType(row.Value2).Compare(ctx.Misc1, uint64(row.Value1))
	case criteria.DataTypeTargetLevel:
		return target != nil && target.Level() >= row.Value1
	case criteria.DataTypeTargetGender:
		return target != nil && target.Gender() == row.Value1
	case criteria.DataTypeScript:
		script, ok := e.scripts[row.ScriptName]
		if !ok || script == nil {
			e.logger.Warn("criteria data script not registered", zap.String("script", row.ScriptName))
			return false
		}
		return script(source, target)
	case criteria.DataTypeMapPlayerCount:
		if source == nil {
			return false
		}
		return e.globals.PlayersInMap(source.MapID()) <= row.Value1
	case criteria.DataTypeTargetTeam:
		if target == nil || !target.IsPlayer() {
			return false
		}
		return teamID(target.Team()) == row.Value1
	case criteria.DataTypeSourceDrunk:
		return source != nil && criteria.DrunkenStateFor(source.DrunkValue()) >= row.Value1
	case criteria.DataTypeHoliday, criteria.DataTypeGameEvent:
		return e.globals.IsGameEventActive(row.Value1)
	case criteria.DataTypeSourceEquippedItem:
		item, ok := e.globals.ItemTemplate(uint32(ctx.Misc1))
		return ok && item.ItemLevel >= row.Value1 && item.Quality >= row.Value2
	case criteria.DataTypeMapID:
		return source != nil && source.MapID() == row.Value1
	case criteria.DataTypeSourceKnownTitle:
		return source != nil && source.HasTitle(row.Value1)
	case criteria.DataTypeSourceItemQuality:
		item, ok := e.globals.ItemTemplate(uint32(ctx.Misc1))
		return ok && item.Quality == row.Value1
	default:
		return false
	}
}

func classRaceMatches(u world.Unit, row criteria.CriteriaDataRecord) bool {
	if row.Value1 != 0 && u.Class() != row.Value1 {
		return false
	}
	if row.Value2 != 0 && u.Race() != row.Value2 {
		return false
	}
	return true
}

func teamID(t world.Team) uint32 {
	switch t {
	case world.TeamHorde:
		return criteria.TeamIDHorde
	case world.TeamAlliance:
		return criteria.TeamIDAlliance
	default:
		return 0
	}
}
