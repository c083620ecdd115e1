// Package model estimates the energy, area and cycles of a storage hierarchy
// executing a mapping.
package model

import (
	"errors"
	"fmt"

	"github.com/MainEpicenter/timeloop/problem"
)

// LevelKind names the kind of a level.
type LevelKind string

// The kinds of levels a topology is made of.
const (
	KindArithmetic LevelKind = "ArithmeticUnits"
	KindBuffer     LevelKind = "BufferLevel"
)

// LevelSpecs are the specifications of a single level.
type LevelSpecs interface {
	LevelName() string
	Kind() LevelKind

	clone() LevelSpecs
}

// ArithmeticConfig is the configuration of the arithmetic level.
type ArithmeticConfig struct {
	Name        string  `yaml:"name"`
	Instances   *uint64 `yaml:"instances"`
	MeshX       *uint64 `yaml:"meshX"`
	WordBits    int     `yaml:"wordBits"`
	EnergyPerOp float64 `yaml:"energyPerOp"`
	AreaPerUnit float64 `yaml:"areaPerUnit"`
}

// ArithmeticSpecs are the specifications of the arithmetic level. Energy is
// in pJ and area in um^2.
type ArithmeticSpecs struct {
	Name        string
	Instances   Attribute[uint64]
	MeshX       Attribute[uint64]
	MeshY       Attribute[uint64]
	WordBits    int
	EnergyPerOp float64
	AreaPerUnit float64
}

// LevelName returns the name of the level.
func (s *ArithmeticSpecs) LevelName() string {
	return s.Name
}

// Kind returns KindArithmetic.
func (s *ArithmeticSpecs) Kind() LevelKind {
	return KindArithmetic
}

func (s *ArithmeticSpecs) clone() LevelSpecs {
	c := *s
	return &c
}

// ParseArithmeticSpecs converts a configuration into specifications.
func ParseArithmeticSpecs(cfg ArithmeticConfig) (*ArithmeticSpecs, error) {
	s := &ArithmeticSpecs{
		Name:        cfg.Name,
		Instances:   attributeFromPtr(cfg.Instances),
		MeshX:       attributeFromPtr(cfg.MeshX),
		WordBits:    cfg.WordBits,
		EnergyPerOp: cfg.EnergyPerOp,
		AreaPerUnit: cfg.AreaPerUnit,
	}

	if s.Name == "" {
		s.Name = "MACs"
	}

	if s.WordBits == 0 {
		s.WordBits = 16
	}

	if !s.Instances.IsSpecified() {
		s.Instances.Set(1)
	}

	if s.Instances.Get() == 0 {
		return nil, fmt.Errorf("arithmetic level %s has zero instances", s.Name)
	}

	if s.MeshX.IsSpecified() {
		meshY, err := deriveMeshY(s.Name, s.Instances.Get(), s.MeshX.Get())
		if err != nil {
			return nil, err
		}

		s.MeshY.Set(meshY)
	}

	if s.EnergyPerOp < 0 || s.AreaPerUnit < 0 {
		return nil, fmt.Errorf("arithmetic level %s has negative cost", s.Name)
	}

	return s, nil
}

// SharingType tells if a buffer stores all the data types in one shared
// structure or in one partition per data type.
type SharingType int

// The sharing types.
const (
	Shared SharingType = iota
	Partitioned
)

func (t SharingType) String() string {
	if t == Partitioned {
		return "partitioned"
	}

	return "shared"
}

// SharedSlot is the attribute slot used by buffers of the Shared sharing type.
// Partitioned buffers use one slot per data type.
const SharedSlot = problem.NumDataTypes

const numSlots = int(SharedSlot) + 1

// BufferConfig is the configuration of a storage level. Size is in words per
// instance (per partition for partitioned buffers); energies are in pJ per
// word; AreaPerBit is in um^2; WireEnergy is in pJ per bit per mm;
// bandwidths are in words per cycle per instance.
type BufferConfig struct {
	Name           string   `yaml:"name"`
	Sharing        string   `yaml:"sharing"`
	Instances      *uint64  `yaml:"instances"`
	MeshX          *uint64  `yaml:"meshX"`
	Fanout         *uint64  `yaml:"fanout"`
	FanoutX        *uint64  `yaml:"fanoutX"`
	FanoutY        *uint64  `yaml:"fanoutY"`
	Size           *uint64  `yaml:"size"`
	WordBits       int      `yaml:"wordBits"`
	ReadEnergy     float64  `yaml:"readEnergy"`
	WriteEnergy    float64  `yaml:"writeEnergy"`
	AreaPerBit     float64  `yaml:"areaPerBit"`
	WireEnergy     float64  `yaml:"wireEnergy"`
	ReadBandwidth  *float64 `yaml:"readBandwidth"`
	WriteBandwidth *float64 `yaml:"writeBandwidth"`
	Multicast      bool     `yaml:"multicast"`
}

// BufferSpecs are the specifications of a storage level.
type BufferSpecs struct {
	Name        string
	SharingType SharingType

	instances [numSlots]Attribute[uint64]
	meshX     [numSlots]Attribute[uint64]
	meshY     [numSlots]Attribute[uint64]
	fanout    [numSlots]Attribute[uint64]
	fanoutX   [numSlots]Attribute[uint64]
	fanoutY   [numSlots]Attribute[uint64]
	size      [numSlots]Attribute[uint64]

	WordBits           int
	ReadEnergy         float64
	WriteEnergy        float64
	AreaPerBit         float64
	WireEnergy         float64
	ReadBandwidth      Attribute[float64]
	WriteBandwidth     Attribute[float64]
	MulticastSupported bool
}

// LevelName returns the name of the level.
func (s *BufferSpecs) LevelName() string {
	return s.Name
}

// Kind returns KindBuffer.
func (s *BufferSpecs) Kind() LevelKind {
	return KindBuffer
}

func (s *BufferSpecs) clone() LevelSpecs {
	c := *s
	return &c
}

// Slots returns the first and the last attribute slot in use.
func (s *BufferSpecs) Slots() (first, last problem.DataType) {
	if s.SharingType == Shared {
		return SharedSlot, SharedSlot
	}

	return 0, problem.NumDataTypes - 1
}

// SlotOf returns the attribute slot that describes a data type.
func (s *BufferSpecs) SlotOf(dt problem.DataType) problem.DataType {
	if s.SharingType == Shared {
		return SharedSlot
	}

	return dt
}

// Instances returns the instance count attribute of a slot.
func (s *BufferSpecs) Instances(slot problem.DataType) *Attribute[uint64] {
	return &s.instances[slot]
}

// MeshX returns the mesh width attribute of a slot.
func (s *BufferSpecs) MeshX(slot problem.DataType) *Attribute[uint64] {
	return &s.meshX[slot]
}

// MeshY returns the mesh height attribute of a slot.
func (s *BufferSpecs) MeshY(slot problem.DataType) *Attribute[uint64] {
	return &s.meshY[slot]
}

// Fanout returns the fanout attribute of a slot.
func (s *BufferSpecs) Fanout(slot problem.DataType) *Attribute[uint64] {
	return &s.fanout[slot]
}

// FanoutX returns the fanout along the X axis of a slot.
func (s *BufferSpecs) FanoutX(slot problem.DataType) *Attribute[uint64] {
	return &s.fanoutX[slot]
}

// FanoutY returns the fanout along the Y axis of a slot.
func (s *BufferSpecs) FanoutY(slot problem.DataType) *Attribute[uint64] {
	return &s.fanoutY[slot]
}

// Size returns the capacity attribute of a slot, in words per instance.
func (s *BufferSpecs) Size(slot problem.DataType) *Attribute[uint64] {
	return &s.size[slot]
}

// ParseBufferSpecs converts a configuration into specifications.
func ParseBufferSpecs(cfg BufferConfig) (*BufferSpecs, error) {
	s := &BufferSpecs{
		Name:               cfg.Name,
		WordBits:           cfg.WordBits,
		ReadEnergy:         cfg.ReadEnergy,
		WriteEnergy:        cfg.WriteEnergy,
		AreaPerBit:         cfg.AreaPerBit,
		WireEnergy:         cfg.WireEnergy,
		ReadBandwidth:      attributeFromPtr(cfg.ReadBandwidth),
		WriteBandwidth:     attributeFromPtr(cfg.WriteBandwidth),
		MulticastSupported: cfg.Multicast,
	}

	switch cfg.Sharing {
	case "", "shared":
		s.SharingType = Shared
	case "partitioned":
		s.SharingType = Partitioned
	default:
		return nil, fmt.Errorf("buffer %s has unknown sharing type %q",
			cfg.Name, cfg.Sharing)
	}

	if s.WordBits == 0 {
		s.WordBits = 16
	}

	if s.ReadEnergy < 0 || s.WriteEnergy < 0 ||
		s.AreaPerBit < 0 || s.WireEnergy < 0 {
		return nil, fmt.Errorf("buffer %s has negative cost", s.Name)
	}

	instances := uint64(1)
	if cfg.Instances != nil {
		instances = *cfg.Instances
	}

	if instances == 0 {
		return nil, fmt.Errorf("buffer %s has zero instances", s.Name)
	}

	meshX := instances
	if cfg.MeshX != nil {
		meshX = *cfg.MeshX
	}

	meshY, err := deriveMeshY(s.Name, instances, meshX)
	if err != nil {
		return nil, err
	}

	first, last := s.Slots()
	for slot := first; slot <= last; slot++ {
		s.instances[slot].Set(instances)
		s.meshX[slot].Set(meshX)
		s.meshY[slot].Set(meshY)
		s.fanout[slot] = attributeFromPtr(cfg.Fanout)
		s.fanoutX[slot] = attributeFromPtr(cfg.FanoutX)
		s.fanoutY[slot] = attributeFromPtr(cfg.FanoutY)
		s.size[slot] = attributeFromPtr(cfg.Size)
	}

	return s, nil
}

func deriveMeshY(name string, instances, meshX uint64) (uint64, error) {
	if meshX == 0 || instances%meshX != 0 {
		return 0, fmt.Errorf("level %s: meshX %d does not divide %d instances",
			name, meshX, instances)
	}

	return instances / meshX, nil
}

// ErrArithmeticPosition is returned when the arithmetic level is missing,
// duplicated, or not the first level.
var ErrArithmeticPosition = errors.New(
	"the arithmetic level must be the one and only first level")

// Specs is the ordered list of level specifications of a topology. Level 0 is
// the arithmetic level; levels 1..N are storage levels, innermost first.
type Specs struct {
	levels        []LevelSpecs
	storageMap    []int
	arithmeticMap int
}

// AddLevel appends a level.
func (s *Specs) AddLevel(level LevelSpecs) error {
	switch level.(type) {
	case *ArithmeticSpecs:
		if len(s.levels) != 0 {
			return ErrArithmeticPosition
		}

		s.arithmeticMap = len(s.levels)
	default:
		if len(s.levels) == 0 {
			return ErrArithmeticPosition
		}

		s.storageMap = append(s.storageMap, len(s.levels))
	}

	s.levels = append(s.levels, level)

	return nil
}

// NumLevels returns the number of levels, including the arithmetic level.
func (s *Specs) NumLevels() int {
	return len(s.levels)
}

// NumStorageLevels returns the number of storage levels.
func (s *Specs) NumStorageLevels() int {
	return len(s.storageMap)
}

// Level returns the specifications of a level.
func (s *Specs) Level(levelID int) LevelSpecs {
	return s.levels[levelID]
}

// StorageMap returns the level index of a storage level.
func (s *Specs) StorageMap(storageLevelID int) int {
	return s.storageMap[storageLevelID]
}

// ArithmeticMap returns the level index of the arithmetic level.
func (s *Specs) ArithmeticMap() int {
	return s.arithmeticMap
}

// StorageLevel returns the specifications of a storage level.
func (s *Specs) StorageLevel(storageLevelID int) *BufferSpecs {
	specs, ok := s.levels[s.storageMap[storageLevelID]].(*BufferSpecs)
	if !ok {
		panic(fmt.Sprintf("storage level %d is not a buffer", storageLevelID))
	}

	return specs
}

// ArithmeticLevel returns the specifications of the arithmetic level.
func (s *Specs) ArithmeticLevel() *ArithmeticSpecs {
	specs, ok := s.levels[s.arithmeticMap].(*ArithmeticSpecs)
	if !ok {
		panic("the arithmetic level is missing")
	}

	return specs
}

// StorageLevelNames lists the storage level names, innermost first.
func (s *Specs) StorageLevelNames() []string {
	names := make([]string, 0, len(s.storageMap))
	for _, id := range s.storageMap {
		names = append(names, s.levels[id].LevelName())
	}

	return names
}

// Clone returns a deep copy.
func (s *Specs) Clone() Specs {
	c := Specs{
		levels:        make([]LevelSpecs, len(s.levels)),
		storageMap:    append([]int(nil), s.storageMap...),
		arithmeticMap: s.arithmeticMap,
	}

	for i, l := range s.levels {
		c.levels[i] = l.clone()
	}

	return c
}

// ArchConfig is the configuration of a whole topology.
type ArchConfig struct {
	Arithmetic ArithmeticConfig `yaml:"arithmetic"`
	Storage    []BufferConfig   `yaml:"storage"`
}

// ParseSpecs builds and validates the specifications of a topology with the
// arithmetic level at level 0 and the storage levels above it, innermost
// first.
func ParseSpecs(
	storage []BufferConfig,
	arithmetic ArithmeticConfig,
) (Specs, error) {
	specs := Specs{}

	arithmeticSpecs, err := ParseArithmeticSpecs(arithmetic)
	if err != nil {
		return Specs{}, err
	}

	err = specs.AddLevel(arithmeticSpecs)
	if err != nil {
		return Specs{}, err
	}

	for _, cfg := range storage {
		bufferSpecs, err := ParseBufferSpecs(cfg)
		if err != nil {
			return Specs{}, err
		}

		err = specs.AddLevel(bufferSpecs)
		if err != nil {
			return Specs{}, err
		}
	}

	err = Validate(&specs)
	if err != nil {
		return Specs{}, err
	}

	return specs, nil
}
