package world

import (
	"time"

	"go.uber.org/zap"
)

// NullGlobals is a Globals implementation that reports every lookup as
// absent. It backs processes that run the tracker without a simulation
// attached.
type NullGlobals struct {
	logger *zap.Logger
}

// NewNullGlobals creates a new null globals provider.
func NewNullGlobals(logger *zap.Logger) *NullGlobals {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NullGlobals{logger: logger}
}

// Now returns the wall clock.
func (n *NullGlobals) Now() time.Time {
	return time.Now()
}

// WorldStateValue always reports zero.
func (n *NullGlobals) WorldStateValue(worldStateID uint32, mapID uint32) int64 {
	n.logger.Debug("null world state lookup",
		zap.Uint32("world_state_id", worldStateID),
		zap.Uint32("map_id", mapID),
	)
	return 0
}

// ItemTemplate reports every item as unknown.
func (n *NullGlobals) ItemTemplate(itemID uint32) (ItemTemplate, bool) {
	return ItemTemplate{}, false
}

// IsGameEventActive reports every game event as inactive.
func (n *NullGlobals) IsGameEventActive(eventID uint32) bool {
	return false
}

// PlayersInMap reports empty maps.
func (n *NullGlobals) PlayersInMap(mapID uint32) uint32 {
	return 0
}

// PlayerMeetsCondition fails closed.
func (n *NullGlobals) PlayerMeetsCondition(player Player, conditionID uint32) bool {
	return false
}

// EvaluateWorldStateExpression fails closed.
func (n *NullGlobals) EvaluateWorldStateExpression(expressionID uint32, player Player) bool {
	return false
}
