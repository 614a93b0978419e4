package farm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const SaveFormatVersion = 1

var ErrSaveNotFound = errors.New("save file not found")

type TileRecord struct {
	Pos           [2]int  `json:"pos"`
	Farm          bool    `json:"farm"`
	Humidity      float64 `json:"humidity"`
	PlantedSeed   *string `json:"planted_seed"`
	GrowthStage   int     `json:"growth_stage"`
	GrowthTime    float64 `json:"growth_time"`
	Withered      bool    `json:"withered"`
	Building      *string `json:"building"`
	BuildingTimer float64 `json:"building_timer"`
}

type EnvironmentRecord struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soil_moisture"`
}

// SaveState is the persisted session document.
type SaveState struct {
	FormatVersion      int                `json:"format_version"`
	SessionID          string             `json:"session_id,omitempty"`
	SavedAt            string             `json:"saved_at,omitempty"`
	Tiles              []TileRecord       `json:"tiles"`
	InventorySeeds     map[string]int     `json:"inventory_seeds"`
	InventoryBuildings map[string]int     `json:"inventory_buildings"`
	Currencies         map[string]int     `json:"currencies"`
	StartTime          float64            `json:"start_time"`
	Environment        *EnvironmentRecord `json:"environment,omitempty"`
}

// The schema only constrains types; every key stays optional so older or
// hand-edited saves still load.
const saveSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "format_version": {"type": "integer"},
    "session_id": {"type": "string"},
    "saved_at": {"type": "string"},
    "tiles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["pos"],
        "properties": {
          "pos": {"type": "array", "items": {"type": "integer"}, "minItems": 2, "maxItems": 2},
          "farm": {"type": "boolean"},
          "humidity": {"type": "number"},
          "planted_seed": {"type": ["string", "null"]},
          "growth_stage": {"type": "integer"},
          "growth_time": {"type": "number"},
          "withered": {"type": "boolean"},
          "building": {"type": ["string", "null"]},
          "building_timer": {"type": "number"}
        }
      }
    },
    "inventory_seeds": {"type": "object", "additionalProperties": {"type": "integer", "minimum": 0}},
    "inventory_buildings": {"type": "object", "additionalProperties": {"type": "integer", "minimum": 0}},
    "currencies": {"type": "object", "additionalProperties": {"type": "integer", "minimum": 0}},
    "start_time": {"type": "number"},
    "environment": {
      "type": "object",
      "properties": {
        "temperature": {"type": "number"},
        "humidity": {"type": "number"},
        "soil_moisture": {"type": "number"}
      }
    }
  }
}`

var (
	saveSchemaOnce     sync.Once
	saveSchemaCompiled *jsonschema.Schema
	saveSchemaErr      error
)

func compiledSaveSchema() (*jsonschema.Schema, error) {
	saveSchemaOnce.Do(func() {
		saveSchemaCompiled, saveSchemaErr = jsonschema.CompileString("save.schema.json", saveSchema)
	})
	return saveSchemaCompiled, saveSchemaErr
}

// tileFields mirrors TileRecord with optional fields so absent keys can be
// told apart from zero values.
type tileFields struct {
	Pos           [2]int   `json:"pos"`
	Farm          *bool    `json:"farm"`
	Humidity      *float64 `json:"humidity"`
	PlantedSeed   *string  `json:"planted_seed"`
	GrowthStage   *int     `json:"growth_stage"`
	GrowthTime    *float64 `json:"growth_time"`
	Withered      *bool    `json:"withered"`
	Building      *string  `json:"building"`
	BuildingTimer *float64 `json:"building_timer"`
}

type saveFields struct {
	FormatVersion      int                `json:"format_version"`
	SessionID          string             `json:"session_id"`
	SavedAt            string             `json:"saved_at"`
	Tiles              []tileFields       `json:"tiles"`
	InventorySeeds     map[string]int     `json:"inventory_seeds"`
	InventoryBuildings map[string]int     `json:"inventory_buildings"`
	Currencies         map[string]int     `json:"currencies"`
	StartTime          float64            `json:"start_time"`
	Environment        *EnvironmentRecord `json:"environment"`
}

func EncodeSave(w io.Writer, s SaveState) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// DecodeSave validates and decodes a save document. Missing tile fields take
// the defaults of a fresh grass tile.
func DecodeSave(r io.Reader) (SaveState, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return SaveState{}, fmt.Errorf("read save: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return SaveState{}, fmt.Errorf("parse save: %w", err)
	}
	schema, err := compiledSaveSchema()
	if err != nil {
		return SaveState{}, fmt.Errorf("compile save schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return SaveState{}, fmt.Errorf("invalid save: %w", err)
	}

	var fields saveFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return SaveState{}, fmt.Errorf("decode save: %w", err)
	}

	out := SaveState{
		FormatVersion:      fields.FormatVersion,
		SessionID:          fields.SessionID,
		SavedAt:            fields.SavedAt,
		InventorySeeds:     fields.InventorySeeds,
		InventoryBuildings: fields.InventoryBuildings,
		Currencies:         fields.Currencies,
		StartTime:          fields.StartTime,
		Environment:        fields.Environment,
		Tiles:              make([]TileRecord, 0, len(fields.Tiles)),
	}
	for _, tf := range fields.Tiles {
		out.Tiles = append(out.Tiles, tf.withDefaults())
	}
	return out, nil
}

func (tf tileFields) withDefaults() TileRecord {
	rec := TileRecord{Pos: tf.Pos, Humidity: MaxHumidity, PlantedSeed: tf.PlantedSeed, Building: tf.Building}
	if tf.Farm != nil {
		rec.Farm = *tf.Farm
	}
	if tf.Humidity != nil {
		rec.Humidity = *tf.Humidity
	}
	if tf.GrowthStage != nil {
		rec.GrowthStage = *tf.GrowthStage
	}
	if tf.GrowthTime != nil {
		rec.GrowthTime = *tf.GrowthTime
	}
	if tf.Withered != nil {
		rec.Withered = *tf.Withered
	}
	if tf.BuildingTimer != nil {
		rec.BuildingTimer = *tf.BuildingTimer
	}
	return rec
}

// WriteSaveFile writes atomically. Paths ending in .zst are zstd-compressed.
func WriteSaveFile(path string, s SaveState) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	var buf bytes.Buffer
	if err := EncodeSave(&buf, s); err != nil {
		return err
	}
	data := buf.Bytes()
	if isCompressed(path) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		_ = enc.Close()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}

func ReadSaveFile(path string) (SaveState, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SaveState{}, ErrSaveNotFound
		}
		return SaveState{}, fmt.Errorf("open save: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if isCompressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return SaveState{}, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return DecodeSave(r)
}

func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// Snapshot captures the session for persistence.
func (f *Farm) Snapshot() SaveState {
	s := SaveState{
		FormatVersion:      SaveFormatVersion,
		SessionID:          f.SessionID,
		SavedAt:            f.now().UTC().Format(time.RFC3339),
		Tiles:              make([]TileRecord, 0, len(f.Grid.tiles)),
		InventorySeeds:     stackMap(f.Economy.Inventory.Seeds()),
		InventoryBuildings: stackMap(f.Economy.Inventory.Buildings()),
		Currencies:         f.Economy.Ledger.Balances(),
		StartTime:          float64(f.Clock.Start.UnixNano()) / float64(time.Second),
		Environment: &EnvironmentRecord{
			Temperature:  f.Env.TemperatureC,
			Humidity:     f.Env.HumidityPct,
			SoilMoisture: f.Env.SoilMoisturePct,
		},
	}
	for _, t := range f.Grid.tiles {
		rec := TileRecord{
			Pos:           [2]int{t.Pos.X, t.Pos.Y},
			Farm:          t.Farmed,
			Humidity:      t.Humidity,
			GrowthStage:   t.GrowthStage,
			GrowthTime:    t.GrowthTime,
			Withered:      t.Withered,
			BuildingTimer: t.BuildingTimer,
		}
		if t.HasPlant() {
			seed := string(t.PlantedSeed)
			rec.PlantedSeed = &seed
		}
		if t.HasBuilding() {
			b := string(t.Building)
			rec.Building = &b
		}
		s.Tiles = append(s.Tiles, rec)
	}
	return s
}

// Restore replaces session state from s. Tiles outside the grid are skipped
// and tiles absent from s keep their current state.
func (f *Farm) Restore(s SaveState) {
	var ripe []Pos
	for _, rec := range s.Tiles {
		t := f.Grid.At(Pos{X: rec.Pos[0], Y: rec.Pos[1]})
		if t == nil {
			continue
		}
		t.Farmed = rec.Farm
		t.Humidity = clamp(rec.Humidity, 0, MaxHumidity)
		t.PlantedSeed = ""
		if rec.PlantedSeed != nil {
			t.PlantedSeed = SeedTag(*rec.PlantedSeed)
		}
		t.GrowthStage = int(clamp(float64(rec.GrowthStage), 0, 2))
		t.GrowthTime = math.Max(0, rec.GrowthTime)
		t.Withered = rec.Withered
		t.Building = ""
		if rec.Building != nil {
			t.Building = BuildingTag(*rec.Building)
		}
		t.BuildingTimer = math.Max(0, rec.BuildingTimer)
		if t.HasBuilding() {
			t.PlantedSeed = ""
			t.GrowthStage = 0
			t.GrowthTime = 0
			t.Withered = false
		}
		t.ReadyToHarvest = t.HasPlant() && !t.Withered && t.GrowthStage == 2
		if t.ReadyToHarvest {
			ripe = append(ripe, t.Pos)
		}
	}
	f.ripe = ripe

	inv := NewInventory()
	for tag, n := range s.InventorySeeds {
		inv.AddSeed(SeedTag(tag), n)
	}
	for tag, n := range s.InventoryBuildings {
		inv.AddBuilding(BuildingTag(tag), n)
	}
	*f.Economy.Inventory = *inv

	if s.Currencies != nil {
		f.Economy.Ledger.replace(s.Currencies)
	} else {
		f.Economy.Ledger.replace(f.Catalog.StartingBalances)
	}

	start := f.now()
	if s.StartTime > 0 {
		sec, frac := math.Modf(s.StartTime)
		start = time.Unix(int64(sec), int64(frac*float64(time.Second)))
	}
	f.Clock.Start = start
	f.days.Set(f.Clock.Day(f.now()))

	if s.Environment != nil {
		f.Env = Environment{
			TemperatureC:    s.Environment.Temperature,
			HumidityPct:     s.Environment.Humidity,
			SoilMoisturePct: s.Environment.SoilMoisture,
		}
	}
	if s.SessionID != "" {
		f.SessionID = s.SessionID
	}
	f.Control.ClearSelection()
}

// Save writes the session to path and reports the outcome as a notification.
func (f *Farm) Save(path string) error {
	if err := WriteSaveFile(path, f.Snapshot()); err != nil {
		f.Notes.Post("Save failed!")
		f.log.Error("save failed", "path", path, "error", err)
		return err
	}
	f.Notes.Post("Game saved!")
	f.log.Info("game saved", "path", path, "session", f.SessionID)
	return nil
}

// Load restores the session from path. On any error the session is left
// untouched and keeps running.
func (f *Farm) Load(path string) error {
	s, err := ReadSaveFile(path)
	if err != nil {
		if errors.Is(err, ErrSaveNotFound) {
			f.Notes.Post("Save file not found!")
		} else {
			f.Notes.Post("Save file is corrupt!")
		}
		f.log.Warn("load failed", "path", path, "error", err)
		return err
	}
	f.Restore(s)
	f.Notes.Post("Game loaded!")
	f.log.Info("game loaded", "path", path, "session", f.SessionID)
	return nil
}

func stackMap(stacks []Stack) map[string]int {
	out := make(map[string]int, len(stacks))
	for _, s := range stacks {
		out[s.Tag] = s.Count
	}
	return out
}
