package criteria

import (
	"sort"

	"go.uber.org/zap"
)

// Criteria is a loaded, referenced criteria definition.
type Criteria struct {
	ID       uint32
	Entry    *CriteriaRecord
	Modifier *ModifierTreeNode
	// Scope is the set of owner kinds whose trees contain this criterion.
	Scope Scope
	Data  []CriteriaDataRecord
}

// Timed reports whether the criterion only progresses while a timer runs.
func (c *Criteria) Timed() bool {
	return c.Entry.StartTimer != 0
}

// CriteriaTree is an anchored node of the criteria forest.
type CriteriaTree struct {
	ID             uint32
	Amount         uint64
	Entry          *CriteriaTreeRecord
	Achievement    *AchievementRecord
	ScenarioStep   *ScenarioStepRecord
	QuestObjective *QuestObjectiveRecord
	Criteria       *Criteria
	Children       []*CriteriaTree
}

// ModifierTreeNode is a node of the predicate forest.
type ModifierTreeNode struct {
	Entry    *ModifierTreeRecord
	Children []*ModifierTreeNode
}

// LoadStats summarizes what a Load kept and discarded.
type LoadStats struct {
	Criteria                int
	CriteriaUnreferenced    int
	CriteriaTrees           int
	CriteriaTreesUnanchored int
	ModifierTrees           int
	Achievements            int
	CriteriaData            int
	Rewards                 int
	SkippedRows             int
}

// Registry is the immutable, indexed view of the static criteria data.
// It is safe for concurrent readers once Load returns.
type Registry struct {
	criteria     map[uint32]*Criteria
	trees        map[uint32]*CriteriaTree
	modifiers    map[uint32]*ModifierTreeNode
	achievements map[uint32]*AchievementRecord
	rewards      map[uint32]*AchievementRewardRecord
	overlays     map[uint32]*WorldMapOverlayRecord

	treesByCriteria map[uint32][]*CriteriaTree
	byType          map[Scope]map[CriteriaType][]*Criteria
	byAsset         map[Scope]map[CriteriaType]map[uint32][]*Criteria
	timed           map[StartEvent][]*Criteria
	byFailEvent     map[FailEvent]map[uint32][]*Criteria
	referencedBy    map[uint32][]*AchievementRecord
	realmFirst      []*AchievementRecord

	stats LoadStats
}

// maxAnchorDepth bounds the upward walk used to resolve tree anchors.
const maxAnchorDepth = 64

// Load builds a Registry from flat rows. Rows referencing unknown ids are
// logged and skipped; Load never fails.
func Load(data Data, logger *zap.Logger) (*Registry, LoadStats) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		criteria:        make(map[uint32]*Criteria),
		trees:           make(map[uint32]*CriteriaTree),
		modifiers:       make(map[uint32]*ModifierTreeNode),
		achievements:    make(map[uint32]*AchievementRecord),
		rewards:         make(map[uint32]*AchievementRewardRecord),
		overlays:        make(map[uint32]*WorldMapOverlayRecord),
		treesByCriteria: make(map[uint32][]*CriteriaTree),
		byType:          make(map[Scope]map[CriteriaType][]*Criteria),
		byAsset:         make(map[Scope]map[CriteriaType]map[uint32][]*Criteria),
		timed:           make(map[StartEvent][]*Criteria),
		byFailEvent:     make(map[FailEvent]map[uint32][]*Criteria),
		referencedBy:    make(map[uint32][]*AchievementRecord),
	}

	r.loadAchievements(data, logger)
	r.loadModifierTrees(data.ModifierTrees, logger)
	r.loadCriteriaTrees(data, logger)
	r.loadCriteria(data.Criteria, logger)
	r.loadOverlays(data.WorldMapOverlays)
	r.indexCriteria()
	r.loadCriteriaData(data.CriteriaData, logger)

	logger.Info("criteria registry loaded",
		zap.Int("criteria", r.stats.Criteria),
		zap.Int("criteria_unreferenced", r.stats.CriteriaUnreferenced),
		zap.Int("criteria_trees", r.stats.CriteriaTrees),
		zap.Int("criteria_trees_unanchored", r.stats.CriteriaTreesUnanchored),
		zap.Int("modifier_trees", r.stats.ModifierTrees),
		zap.Int("achievements", r.stats.Achievements),
		zap.Int("criteria_data", r.stats.CriteriaData),
		zap.Int("skipped_rows", r.stats.SkippedRows),
	)
	return r, r.stats
}

func (r *Registry) loadAchievements(data Data, logger *zap.Logger) {
	arena := make([]AchievementRecord, len(data.Achievements))
	copy(arena, data.Achievements)
	for i := range arena {
		a := &arena[i]
		if _, dup := r.achievements[a.ID]; dup {
			logger.Warn("duplicate achievement row skipped", zap.Uint32("achievement_id", a.ID))
			r.stats.SkippedRows++
			continue
		}
		r.achievements[a.ID] = a
		r.stats.Achievements++
	}

	for _, id := range sortedKeys(r.achievements) {
		a := r.achievements[id]
		if a.SharesCriteria != 0 {
			r.referencedBy[a.SharesCriteria] = append(r.referencedBy[a.SharesCriteria], a)
		}
		if a.Flags.RealmFirst() {
			r.realmFirst = append(r.realmFirst, a)
		}
	}

	for i := range data.AchievementRewards {
		reward := data.AchievementRewards[i]
		if _, ok := r.achievements[reward.AchievementID]; !ok {
			logger.Warn("reward for unknown achievement skipped", zap.Uint32("achievement_id", reward.AchievementID))
			r.stats.SkippedRows++
			continue
		}
		r.rewards[reward.AchievementID] = &reward
		r.stats.Rewards++
	}
}

func (r *Registry) loadModifierTrees(rows []ModifierTreeRecord, logger *zap.Logger) {
	arena := make([]ModifierTreeNode, len(rows))
	entries := make([]ModifierTreeRecord, len(rows))
	copy(entries, rows)

	// Pass one: create every node.
	n := 0
	for i := range entries {
		e := &entries[i]
		if _, dup := r.modifiers[e.ID]; dup {
			logger.Warn("duplicate modifier tree row skipped", zap.Uint32("modifier_tree_id", e.ID))
			r.stats.SkippedRows++
			continue
		}
		arena[n].Entry = e
		r.modifiers[e.ID] = &arena[n]
		n++
	}
	r.stats.ModifierTrees = n

	// Pass two: link children to parents.
	parentOf := func(id uint32) (uint32, bool) {
		node, ok := r.modifiers[id]
		if !ok {
			return 0, false
		}
		return node.Entry.Parent, true
	}
	for _, id := range sortedKeys(r.modifiers) {
		node := r.modifiers[id]
		parentID := node.Entry.Parent
		if parentID == 0 {
			continue
		}
		parent, ok := r.modifiers[parentID]
		if !ok {
			logger.Warn("modifier tree node has unknown parent",
				zap.Uint32("modifier_tree_id", id),
				zap.Uint32("parent_id", parentID),
			)
			continue
		}
		if reachesAncestor(parentID, id, parentOf) {
			logger.Warn("modifier tree cycle broken",
				zap.Uint32("modifier_tree_id", id),
				zap.Uint32("parent_id", parentID),
			)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
}

func (r *Registry) loadCriteriaTrees(data Data, logger *zap.Logger) {
	knownCriteria := make(map[uint32]struct{}, len(data.Criteria))
	for _, c := range data.Criteria {
		knownCriteria[c.ID] = struct{}{}
	}

	achievementByTree := make(map[uint32]*AchievementRecord)
	for _, id := range sortedKeys(r.achievements) {
		a := r.achievements[id]
		if a.CriteriaTree != 0 {
			achievementByTree[a.CriteriaTree] = a
		}
	}
	scenarioByTree := make(map[uint32]*ScenarioStepRecord)
	for i := range data.ScenarioSteps {
		step := data.ScenarioSteps[i]
		if step.CriteriaTreeID != 0 {
			scenarioByTree[step.CriteriaTreeID] = &step
		}
	}
	objectiveByTree := make(map[uint32]*QuestObjectiveRecord)
	for i := range data.QuestObjectives {
		objective := data.QuestObjectives[i]
		if objective.CriteriaTreeID != 0 {
			objectiveByTree[objective.CriteriaTreeID] = &objective
		}
	}

	entries := make([]CriteriaTreeRecord, len(data.CriteriaTrees))
	copy(entries, data.CriteriaTrees)
	rows := make(map[uint32]*CriteriaTreeRecord, len(entries))
	for i := range entries {
		e := &entries[i]
		if _, dup := rows[e.ID]; dup {
			logger.Warn("duplicate criteria tree row skipped", zap.Uint32("tree_id", e.ID))
			r.stats.SkippedRows++
			continue
		}
		if e.CriteriaID != 0 {
			if _, ok := knownCriteria[e.CriteriaID]; !ok {
				logger.Warn("criteria tree references unknown criteria",
					zap.Uint32("tree_id", e.ID),
					zap.Uint32("criteria_id", e.CriteriaID),
				)
				r.stats.SkippedRows++
				continue
			}
		}
		rows[e.ID] = e
	}

	parentOf := func(id uint32) (uint32, bool) {
		row, ok := rows[id]
		if !ok {
			return 0, false
		}
		return row.Parent, true
	}

	// Pass one: create a node for every row with a reachable anchor.
	arena := make([]CriteriaTree, len(rows))
	n := 0
	for _, id := range sortedKeys(rows) {
		row := rows[id]
		achievement := findAnchor(id, achievementByTree, parentOf)
		step := findAnchor(id, scenarioByTree, parentOf)
		objective := findAnchor(id, objectiveByTree, parentOf)
		if achievement == nil && step == nil && objective == nil {
			r.stats.CriteriaTreesUnanchored++
			continue
		}
		arena[n] = CriteriaTree{
			ID:             id,
			Amount:         row.Amount,
			Entry:          row,
			Achievement:    achievement,
			ScenarioStep:   step,
			QuestObjective: objective,
		}
		r.trees[id] = &arena[n]
		n++
	}
	r.stats.CriteriaTrees = n

	// Pass two: link children and the criteria reverse index.
	for _, id := range sortedKeys(r.trees) {
		tree := r.trees[id]
		if tree.Entry.Parent != 0 && tree.Entry.Parent != id {
			if parent, ok := r.trees[tree.Entry.Parent]; ok && !reachesAncestor(tree.Entry.Parent, id, parentOf) {
				parent.Children = append(parent.Children, tree)
			}
		}
		if tree.Entry.CriteriaID != 0 {
			r.treesByCriteria[tree.Entry.CriteriaID] = append(r.treesByCriteria[tree.Entry.CriteriaID], tree)
		}
	}
	for _, tree := range r.trees {
		sort.SliceStable(tree.Children, func(i, j int) bool {
			a, b := tree.Children[i].Entry, tree.Children[j].Entry
			if a.OrderIndex != b.OrderIndex {
				return a.OrderIndex < b.OrderIndex
			}
			return a.ID < b.ID
		})
	}
}

func (r *Registry) loadCriteria(rows []CriteriaRecord, logger *zap.Logger) {
	entries := make([]CriteriaRecord, len(rows))
	copy(entries, rows)
	arena := make([]Criteria, len(entries))
	n := 0
	for i := range entries {
		e := &entries[i]
		trees, referenced := r.treesByCriteria[e.ID]
		if !referenced {
			r.stats.CriteriaUnreferenced++
			continue
		}
		if _, dup := r.criteria[e.ID]; dup {
			logger.Warn("duplicate criteria row skipped", zap.Uint32("criteria_id", e.ID))
			r.stats.SkippedRows++
			continue
		}

		var modifier *ModifierTreeNode
		if e.ModifierTreeID != 0 {
			node, ok := r.modifiers[e.ModifierTreeID]
			if !ok {
				logger.Warn("criteria references unknown modifier tree",
					zap.Uint32("criteria_id", e.ID),
					zap.Uint32("modifier_tree_id", e.ModifierTreeID),
				)
				r.stats.SkippedRows++
				delete(r.treesByCriteria, e.ID)
				continue
			}
			modifier = node
		}

		c := &arena[n]
		n++
		*c = Criteria{ID: e.ID, Entry: e, Modifier: modifier}
		for _, tree := range trees {
			tree.Criteria = c
			if tree.Achievement != nil {
				if tree.Achievement.Flags.Has(AchievementFlagGuild) {
					c.Scope |= ScopeGuild
				} else {
					c.Scope |= ScopePlayer
				}
			}
			if tree.ScenarioStep != nil {
				c.Scope |= ScopeScenario
			}
			if tree.QuestObjective != nil {
				c.Scope |= ScopeQuestObjective
			}
		}
		r.criteria[e.ID] = c
	}
	r.stats.Criteria = n
}

func (r *Registry) loadOverlays(rows []WorldMapOverlayRecord) {
	for i := range rows {
		overlay := rows[i]
		r.overlays[overlay.ID] = &overlay
	}
}

func (r *Registry) indexCriteria() {
	scopes := []Scope{ScopePlayer, ScopeGuild, ScopeScenario, ScopeQuestObjective}
	for _, id := range sortedKeys(r.criteria) {
		c := r.criteria[id]
		e := c.Entry
		for _, scope := range scopes {
			if c.Scope&scope == 0 {
				continue
			}
			if r.byType[scope] == nil {
				r.byType[scope] = make(map[CriteriaType][]*Criteria)
				r.byAsset[scope] = make(map[CriteriaType]map[uint32][]*Criteria)
			}
			r.byType[scope][e.Type] = append(r.byType[scope][e.Type], c)
			if !e.Type.StoredByAsset() {
				continue
			}
			buckets := r.byAsset[scope][e.Type]
			if buckets == nil {
				buckets = make(map[uint32][]*Criteria)
				r.byAsset[scope][e.Type] = buckets
			}
			if e.Type != RevealWorldMapOverlay {
				buckets[e.Asset] = append(buckets[e.Asset], c)
				continue
			}
			overlay, ok := r.overlays[e.Asset]
			if !ok {
				continue
			}
			seen := make(map[uint32]struct{}, len(overlay.AreaIDs))
			for _, area := range overlay.AreaIDs {
				if area == 0 {
					continue
				}
				if _, dup := seen[area]; dup {
					continue
				}
				seen[area] = struct{}{}
				buckets[area] = append(buckets[area], c)
			}
		}

		if e.StartTimer != 0 {
			r.timed[e.StartEvent] = append(r.timed[e.StartEvent], c)
		}
		if e.FailEvent != FailEventNone {
			if r.byFailEvent[e.FailEvent] == nil {
				r.byFailEvent[e.FailEvent] = make(map[uint32][]*Criteria)
			}
			r.byFailEvent[e.FailEvent][e.FailAsset] = append(r.byFailEvent[e.FailEvent][e.FailAsset], c)
		}
	}
}

func (r *Registry) loadCriteriaData(rows []CriteriaDataRecord, logger *zap.Logger) {
	for _, row := range rows {
		c, ok := r.criteria[row.CriteriaID]
		if !ok {
			logger.Error("criteria data references unknown criteria",
				zap.Uint32("criteria_id", row.CriteriaID),
				zap.Uint8("data_type", uint8(row.Type)),
			)
			r.stats.SkippedRows++
			continue
		}
		if err := ValidateCriteriaData(row); err != nil {
			logger.Warn("invalid criteria data skipped",
				zap.Uint32("criteria_id", row.CriteriaID),
				zap.Error(err),
			)
			r.stats.SkippedRows++
			continue
		}
		if row.Type == DataTypeNone {
			continue
		}
		c.Data = append(c.Data, row)
		r.stats.CriteriaData++
	}
}

// Stats returns the counts recorded during Load.
func (r *Registry) Stats() LoadStats {
	return r.stats
}

// Criteria returns a loaded criterion or nil.
func (r *Registry) Criteria(id uint32) *Criteria {
	return r.criteria[id]
}

// AllCriteria returns every loaded criterion ordered by id.
func (r *Registry) AllCriteria() []*Criteria {
	out := make([]*Criteria, 0, len(r.criteria))
	for _, id := range sortedKeys(r.criteria) {
		out = append(out, r.criteria[id])
	}
	return out
}

// CriteriaTree returns an anchored tree node or nil.
func (r *Registry) CriteriaTree(id uint32) *CriteriaTree {
	return r.trees[id]
}

// ModifierTree returns a modifier tree node or nil.
func (r *Registry) ModifierTree(id uint32) *ModifierTreeNode {
	return r.modifiers[id]
}

// TreesForCriteria returns every anchored tree that has the criterion as a leaf.
func (r *Registry) TreesForCriteria(criteriaID uint32) []*CriteriaTree {
	return r.treesByCriteria[criteriaID]
}

// Candidates returns the criteria an event of type t with asset misc1 may
// advance for an owner of the given scope. Asset-indexed types with a zero
// asset return every criterion of that type.
func (r *Registry) Candidates(scope Scope, t CriteriaType, asset uint32) []*Criteria {
	if asset != 0 && t.StoredByAsset() {
		return r.byAsset[scope][t][asset]
	}
	return r.byType[scope][t]
}

// TimedCriteria returns the criteria armed by a start event.
func (r *Registry) TimedCriteria(event StartEvent) []*Criteria {
	return r.timed[event]
}

// CriteriaByFailEvent returns the criteria reset by a fail event on an asset.
func (r *Registry) CriteriaByFailEvent(event FailEvent, asset uint32) []*Criteria {
	return r.byFailEvent[event][asset]
}

// Achievement returns an achievement definition or nil.
func (r *Registry) Achievement(id uint32) *AchievementRecord {
	return r.achievements[id]
}

// Achievements returns every achievement ordered by id.
func (r *Registry) Achievements() []*AchievementRecord {
	out := make([]*AchievementRecord, 0, len(r.achievements))
	for _, id := range sortedKeys(r.achievements) {
		out = append(out, r.achievements[id])
	}
	return out
}

// AchievementsReferencing returns achievements sharing the criteria of id.
func (r *Registry) AchievementsReferencing(id uint32) []*AchievementRecord {
	return r.referencedBy[id]
}

// RealmFirstAchievements returns every realm-first flagged achievement.
func (r *Registry) RealmFirstAchievements() []*AchievementRecord {
	return r.realmFirst
}

// Reward returns the reward row for an achievement or nil.
func (r *Registry) Reward(achievementID uint32) *AchievementRewardRecord {
	return r.rewards[achievementID]
}

// WorldMapOverlay returns an overlay row or nil.
func (r *Registry) WorldMapOverlay(id uint32) *WorldMapOverlayRecord {
	return r.overlays[id]
}

// Walk visits every node of tree in post-order: all descendants before the
// node itself.
func Walk(tree *CriteriaTree, visit func(*CriteriaTree)) {
	if tree == nil {
		return
	}
	for _, child := range tree.Children {
		Walk(child, visit)
	}
	visit(tree)
}

// findAnchor walks from id towards the root and returns the first anchor
// found in anchors.
func findAnchor[T any](id uint32, anchors map[uint32]*T, parentOf func(uint32) (uint32, bool)) *T {
	visited := make(map[uint32]struct{})
	cur := id
	for depth := 0; depth < maxAnchorDepth; depth++ {
		if anchor, ok := anchors[cur]; ok {
			return anchor
		}
		if _, loop := visited[cur]; loop {
			return nil
		}
		visited[cur] = struct{}{}
		parent, ok := parentOf(cur)
		if !ok || parent == 0 {
			return nil
		}
		cur = parent
	}
	return nil
}

// reachesAncestor reports whether walking up from start reaches target.
func reachesAncestor(start, target uint32, parentOf func(uint32) (uint32, bool)) bool {
	visited := make(map[uint32]struct{})
	cur := start
	for depth := 0; depth < maxAnchorDepth; depth++ {
		if cur == target {
			return true
		}
		if _, loop := visited[cur]; loop {
			return false
		}
		visited[cur] = struct{}{}
		parent, ok := parentOf(cur)
		if !ok || parent == 0 {
			return false
		}
		cur = parent
	}
	return true
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
