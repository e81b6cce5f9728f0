// Package datapack reads and writes the YAML data packs the criteria
// registry is built from. Packs ending in .zst are zstd compressed.
package datapack

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/platform/otel"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the pack version written by Write.
const CurrentVersion = 1

const (
	schemaURL  = "datapack.schema.json"
	tracerName = "datapack"
)

//go:embed datapack.schema.json
var schemaJSON string

// ErrSchema is wrapped by every error caused by a document that does not
// match the data pack schema.
var ErrSchema = errors.New("data pack does not match schema")

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Document is the on-disk shape of a data pack.
type Document struct {
	Version            int                                `yaml:"version"`
	Criteria           []criteria.CriteriaRecord          `yaml:"criteria,omitempty"`
	CriteriaTrees      []criteria.CriteriaTreeRecord      `yaml:"criteria_trees,omitempty"`
	ModifierTrees      []criteria.ModifierTreeRecord      `yaml:"modifier_trees,omitempty"`
	Achievements       []criteria.AchievementRecord       `yaml:"achievements,omitempty"`
	ScenarioSteps      []criteria.ScenarioStepRecord      `yaml:"scenario_steps,omitempty"`
	QuestObjectives    []criteria.QuestObjectiveRecord    `yaml:"quest_objectives,omitempty"`
	WorldMapOverlays   []criteria.WorldMapOverlayRecord   `yaml:"world_map_overlays,omitempty"`
	CriteriaData       []criteria.CriteriaDataRecord      `yaml:"criteria_data,omitempty"`
	AchievementRewards []criteria.AchievementRewardRecord `yaml:"achievement_rewards,omitempty"`
}

// Data returns the registry input held by the document.
func (d Document) Data() criteria.Data {
	return criteria.Data{
		Criteria:           d.Criteria,
		CriteriaTrees:      d.CriteriaTrees,
		ModifierTrees:      d.ModifierTrees,
		Achievements:       d.Achievements,
		ScenarioSteps:      d.ScenarioSteps,
		QuestObjectives:    d.QuestObjectives,
		WorldMapOverlays:   d.WorldMapOverlays,
		CriteriaData:       d.CriteriaData,
		AchievementRewards: d.AchievementRewards,
	}
}

// FromData wraps registry input in a document of the current version.
func FromData(data criteria.Data) Document {
	return Document{
		Version:            CurrentVersion,
		Criteria:           data.Criteria,
		CriteriaTrees:      data.CriteriaTrees,
		ModifierTrees:      data.ModifierTrees,
		Achievements:       data.Achievements,
		ScenarioSteps:      data.ScenarioSteps,
		QuestObjectives:    data.QuestObjectives,
		WorldMapOverlays:   data.WorldMapOverlays,
		CriteriaData:       data.CriteriaData,
		AchievementRewards: data.AchievementRewards,
	}
}

// Rows returns the number of rows in the document.
func (d Document) Rows() int {
	return len(d.Criteria) + len(d.CriteriaTrees) + len(d.ModifierTrees) + len(d.Achievements) +
		len(d.ScenarioSteps) + len(d.QuestObjectives) + len(d.WorldMapOverlays) +
		len(d.CriteriaData) + len(d.AchievementRewards)
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks raw YAML against the data pack schema.
func Validate(raw []byte) error {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if generic == nil {
		return fmt.Errorf("%w: empty document", ErrSchema)
	}

	// The validator expects values shaped like encoding/json output.
	encoded, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// Decode reads, validates and decodes one data pack.
func Decode(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read data pack: %w", err)
	}
	if err := Validate(raw); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode data pack: %w", err)
	}
	return doc, nil
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode data pack: %w", err)
	}
	return enc.Close()
}

// Load reads the data pack at path.
func Load(ctx context.Context, path string, logger *zap.Logger) (doc Document, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	_, span := otel.StartSpan(ctx, tracerName, "datapack.Load", attribute.String("datapack.path", path))
	defer func() { otel.EndSpan(span, err) }()

	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open data pack: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return Document{}, fmt.Errorf("open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	doc, err = Decode(r)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	span.SetAttributes(attribute.Int("datapack.rows", doc.Rows()))

	logger.Info("data pack loaded",
		zap.String("path", path),
		zap.Int("version", doc.Version),
		zap.Int("criteria", len(doc.Criteria)),
		zap.Int("criteria_trees", len(doc.CriteriaTrees)),
		zap.Int("modifier_trees", len(doc.ModifierTrees)),
		zap.Int("achievements", len(doc.Achievements)),
	)
	return doc, nil
}

// Write stores doc at path, compressing it when path ends in .zst.
func Write(path string, doc Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create data pack: %w", err)
	}
	defer f.Close()

	if !compressed(path) {
		if _, err := f.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write data pack: %w", err)
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("open zstd stream: %w", err)
	}
	if _, err := enc.Write(buf.Bytes()); err != nil {
		enc.Close()
		return fmt.Errorf("write data pack: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush zstd stream: %w", err)
	}
	return f.Close()
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
