package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration. Every value the
// pipeline used to hard-code lives here: source file names, per-table fill
// defaults, bucket boundaries and labels, and output locations.
type Config struct {
	Sources  SourcesConfig  `yaml:"sources" envconfig:"SOURCES"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Features FeaturesConfig `yaml:"features" envconfig:"FEATURES"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// SourcesConfig identifies the three input files and their shared key column
type SourcesConfig struct {
	DataDir          string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	AccountFile      string `yaml:"account_file" envconfig:"ACCOUNT_FILE" validate:"required"`
	HolderFile       string `yaml:"holder_file" envconfig:"HOLDER_FILE" validate:"required"`
	FraudFile        string `yaml:"fraud_file" envconfig:"FRAUD_FILE" validate:"required"`
	IdentifierColumn string `yaml:"identifier_column" envconfig:"IDENTIFIER_COLUMN" validate:"required"`
}

// CleaningConfig holds the per-table default-fill maps. Values are written in
// cell syntax: "-1" fills as the numeric sentinel, "Missing" as the literal
// text sentinel.
type CleaningConfig struct {
	AccountDefaults map[string]string `yaml:"account_defaults" envconfig:"ACCOUNT_DEFAULTS"`
	HolderDefaults  map[string]string `yaml:"holder_defaults" envconfig:"HOLDER_DEFAULTS"`
	// FraudDefault is applied to every column of the fraud table
	FraudDefault string `yaml:"fraud_default" envconfig:"FRAUD_DEFAULT" validate:"required"`
}

// BucketConfig defines half-open [lo, hi) buckets. Labels has one entry per
// adjacent pair of bounds.
type BucketConfig struct {
	Bounds []float64 `yaml:"bounds" envconfig:"BOUNDS" validate:"min=2"`
	Labels []string  `yaml:"labels" envconfig:"LABELS" validate:"min=1"`
}

// FeaturesConfig controls derived-feature computation on the combined table
type FeaturesConfig struct {
	DateOfBirthColumn    string       `yaml:"date_of_birth_column" envconfig:"DATE_OF_BIRTH_COLUMN" validate:"required"`
	DateOfBirthFormat    string       `yaml:"date_of_birth_format" envconfig:"DATE_OF_BIRTH_FORMAT" validate:"required"`
	AgeColumn            string       `yaml:"age_column" envconfig:"AGE_COLUMN" validate:"required"`
	AgeCategoryColumn    string       `yaml:"age_category_column" envconfig:"AGE_CATEGORY_COLUMN" validate:"required"`
	IncomeColumn         string       `yaml:"income_column" envconfig:"INCOME_COLUMN" validate:"required"`
	IncomeCategoryColumn string       `yaml:"income_category_column" envconfig:"INCOME_CATEGORY_COLUMN" validate:"required"`
	AgeBuckets           BucketConfig `yaml:"age_buckets" envconfig:"AGE_BUCKETS"`
	IncomeBuckets        BucketConfig `yaml:"income_buckets" envconfig:"INCOME_BUCKETS"`
}

// AnalysisConfig controls the demographic aggregation
type AnalysisConfig struct {
	MuleColumn   string `yaml:"mule_column" envconfig:"MULE_COLUMN" validate:"required"`
	GenderColumn string `yaml:"gender_column" envconfig:"GENDER_COLUMN" validate:"required"`
	TopSegments  int    `yaml:"top_segments" envconfig:"TOP_SEGMENTS" validate:"min=1"`
}

// OutputConfig names the report artifacts written under Dir
type OutputConfig struct {
	Dir              string `yaml:"dir" envconfig:"DIR" validate:"required"`
	CombinedCSV      string `yaml:"combined_csv" envconfig:"COMBINED_CSV" validate:"required"`
	AnalysisWorkbook string `yaml:"analysis_workbook" envconfig:"ANALYSIS_WORKBOOK" validate:"required"`
	AgeChart         string `yaml:"age_chart" envconfig:"AGE_CHART" validate:"required"`
	GenderChart      string `yaml:"gender_chart" envconfig:"GENDER_CHART" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the configuration in three layers: built-in defaults, then an
// optional YAML file, then environment variables (MULEWATCH_* takes
// precedence). The result is validated before use.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("MULEWATCH", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first config file found in common locations
func findConfigFile() string {
	locations := []string{
		"mulewatch.yaml",
		"configs/mulewatch.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks struct tags plus the cross-field bucket invariants that
// tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if err := c.Features.AgeBuckets.validate("age_buckets"); err != nil {
		return err
	}
	if err := c.Features.IncomeBuckets.validate("income_buckets"); err != nil {
		return err
	}

	if len(c.Cleaning.AccountDefaults) == 0 {
		return fmt.Errorf("cleaning.account_defaults must not be empty")
	}
	if len(c.Cleaning.HolderDefaults) == 0 {
		return fmt.Errorf("cleaning.holder_defaults must not be empty")
	}

	return nil
}

// validate checks that bounds are strictly ascending and labels cover each
// adjacent pair of bounds.
func (b BucketConfig) validate(name string) error {
	if len(b.Labels) != len(b.Bounds)-1 {
		return fmt.Errorf("%s: need %d labels for %d bounds, got %d",
			name, len(b.Bounds)-1, len(b.Bounds), len(b.Labels))
	}
	for i := 1; i < len(b.Bounds); i++ {
		if b.Bounds[i] <= b.Bounds[i-1] {
			return fmt.Errorf("%s: bounds must be strictly ascending, got %v at index %d",
				name, b.Bounds[i], i)
		}
	}
	return nil
}

// AccountPath returns the resolved path of the account data file
func (c *Config) AccountPath() string {
	return filepath.Join(c.Sources.DataDir, c.Sources.AccountFile)
}

// HolderPath returns the resolved path of the account holder data file
func (c *Config) HolderPath() string {
	return filepath.Join(c.Sources.DataDir, c.Sources.HolderFile)
}

// FraudPath returns the resolved path of the mule flag file
func (c *Config) FraudPath() string {
	return filepath.Join(c.Sources.DataDir, c.Sources.FraudFile)
}

// OutputPath resolves an artifact name against the output directory
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Output.Dir, name)
}

// Default returns the default configuration: standard source file names,
// fill values, and age/income bucket definitions.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			DataDir:          "data",
			AccountFile:      "account_data.csv",
			HolderFile:       "account_holder_data.csv",
			FraudFile:        "mule_flag.csv",
			IdentifierColumn: "Identifier",
		},
		Cleaning: CleaningConfig{
			AccountDefaults: map[string]string{
				"AccountLength":      "-1",
				"AverageBalance":     "-1",
				"NumTransactions":    "-1",
				"NumDeposits":        "-1",
				"NumWithdrawals":     "-1",
				"NumTransfers":       "-1",
				"NumLoans":           "-1",
				"NumCreditCards":     "-1",
				"NumSavingsAccounts": "-1",
			},
			HolderDefaults: map[string]string{
				"DateOfBirth":               "Missing",
				"Gender":                    "Missing",
				"Income":                    "-1",
				"CreditScore":               "-1",
				"LoanAmount":                "-1",
				"EmploymentStatus":          "Missing",
				"MaritalStatus":             "Missing",
				"OccupancyStatus":           "Missing",
				"NumDependents":             "-1",
				"SocialMediaUsageHours":     "-1",
				"ShoppingFrequencyPerMonth": "-1",
				"HealthInsuranceStatus":     "Missing",
			},
			FraudDefault: "0",
		},
		Features: FeaturesConfig{
			DateOfBirthColumn:    "DateOfBirth",
			DateOfBirthFormat:    "02/01/2006",
			AgeColumn:            "Age",
			AgeCategoryColumn:    "AgeCategory",
			IncomeColumn:         "Income",
			IncomeCategoryColumn: "IncomeCategory",
			AgeBuckets: BucketConfig{
				Bounds: []float64{0, 17, 24, 35, 45, 60, 100},
				Labels: []string{"0-17", "18-24", "25-35", "36-45", "46-60", "60+"},
			},
			IncomeBuckets: BucketConfig{
				Bounds: []float64{0, 10000, 20000, 30000, 40000, 60000, 80000, 100000},
				Labels: []string{"0-10k", "10k-20k", "20k-30k", "30k-40k", "40k-60k", "60k-80k", "80k+"},
			},
		},
		Analysis: AnalysisConfig{
			MuleColumn:   "MuleAccount",
			GenderColumn: "Gender",
			TopSegments:  5,
		},
		Output: OutputConfig{
			Dir:              "reports",
			CombinedCSV:      "combined_data.csv",
			AnalysisWorkbook: "mule_analysis.xlsx",
			AgeChart:         "mule_by_age.html",
			GenderChart:      "mule_by_gender.html",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/mulewatch.log",
		},
	}
}
