package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ScenarioConfig describes a simulation run for the operator CLI to load:
// every worker, storage, workstation, transport, and dangling item to
// register with a freshly constructed engine before the tick loop starts.
// IDs and item types are plain strings, matching the CLI's concrete
// Engine[string, string] instantiation.
type ScenarioConfig struct {
	Name          string             `mapstructure:"name"`
	Workers       []string           `mapstructure:"workers"`
	Storages      []StorageSpec      `mapstructure:"storages" validate:"dive"`
	Workstations  []WorkstationSpec  `mapstructure:"workstations" validate:"dive"`
	Transports    []TransportSpec    `mapstructure:"transports" validate:"dive"`
	DanglingItems []DanglingItemSpec `mapstructure:"dangling_items" validate:"dive"`
}

// StorageSpec describes one storage slot to register. InitialItem seeds the
// slot with contents at scenario start, for demo scenarios that don't rely
// solely on dangling-item delivery to get a producer-less workstation moving.
type StorageSpec struct {
	ID          string `mapstructure:"id" validate:"required"`
	Role        string `mapstructure:"role" validate:"required,oneof=EIS IIS IOS EOS"`
	Accepts     string `mapstructure:"accepts"`
	Priority    string `mapstructure:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH CRITICAL"`
	InitialItem string `mapstructure:"initial_item"`
}

// WorkstationSpec describes one workstation and its role-slot wiring.
type WorkstationSpec struct {
	ID              string   `mapstructure:"id" validate:"required"`
	EIS             []string `mapstructure:"eis"`
	IIS             []string `mapstructure:"iis"`
	IOS             []string `mapstructure:"ios"`
	EOS             []string `mapstructure:"eos"`
	Priority        string   `mapstructure:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH CRITICAL"`
	ProcessDuration int      `mapstructure:"process_duration" validate:"min=0"`
	Output          string   `mapstructure:"output"`
}

// TransportSpec describes one recurring transport route.
type TransportSpec struct {
	ID       string `mapstructure:"id" validate:"required"`
	From     string `mapstructure:"from" validate:"required"`
	To       string `mapstructure:"to" validate:"required"`
	Item     string `mapstructure:"item" validate:"required"`
	Priority string `mapstructure:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH CRITICAL"`
}

// DanglingItemSpec describes one orphan item present at scenario start.
type DanglingItemSpec struct {
	ID   string `mapstructure:"id" validate:"required"`
	Item string `mapstructure:"item" validate:"required"`
}

// LoadScenario reads a YAML scenario document from path via Viper.
func LoadScenario(path string) (*ScenarioConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	var scenario ScenarioConfig
	if err := v.Unmarshal(&scenario); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}

	// The dive tags on ScenarioConfig's slice fields make this one call also
	// validate every Storage/Workstation/Transport/DanglingItem entry.
	if err := NewValidator().Validate(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}
