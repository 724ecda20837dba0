package InputParameters

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
	"github.com/notargets/condreg/types"
)

// Parameters obtained from the YAML run file
type InputParameters struct {
	Title       string    `json:"Title"`
	Eigenvalues []float64 `json:"Eigenvalues"` // Spectrum to shrink directly, sorted descending
	DataFile    string    `json:"DataFile"`    // CSV of observations, one per row
	Targets     []float64 `json:"Targets"`     // Condition number bounds to solve for
	Direction   string    `json:"Direction"`
	Folds       int       `json:"Folds"`
	Shuffle     bool      `json:"Shuffle"`
	Seed        uint64    `json:"Seed"`
	GridMax     float64   `json:"GridMax"` // Cross validation grid, see portfolio.KGrid
	GridPoints  int       `json:"GridPoints"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Validate() (err error) {
	var (
		dir types.Direction
	)
	if dir, err = types.NewDirection(ip.Direction); err != nil {
		return
	}
	ip.Direction = dir.String()
	if len(ip.Eigenvalues) == 0 && ip.DataFile == "" {
		return fmt.Errorf("run file needs Eigenvalues or DataFile: %w", types.ErrInvalidArgument)
	}
	for i := 1; i < len(ip.Eigenvalues); i++ {
		if ip.Eigenvalues[i] > ip.Eigenvalues[i-1] {
			return fmt.Errorf("eigenvalues must be sorted descending, entry %d: %w",
				i, types.ErrInvalidArgument)
		}
	}
	for _, k := range ip.Targets {
		if math.IsNaN(k) || k < 1 {
			return fmt.Errorf("target %v below 1: %w", k, types.ErrInvalidArgument)
		}
	}
	if ip.Folds < 0 || ip.Folds == 1 {
		return fmt.Errorf("%d folds: %w", ip.Folds, types.ErrInvalidArgument)
	}
	if ip.GridPoints != 0 || ip.GridMax != 0 {
		if ip.GridPoints < 2 || ip.GridMax <= 1 {
			return fmt.Errorf("grid of %d points up to %v: %w",
				ip.GridPoints, ip.GridMax, types.ErrInvalidArgument)
		}
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if len(ip.Eigenvalues) != 0 {
		fmt.Printf("%v\t= Eigenvalues\n", ip.Eigenvalues)
	}
	if ip.DataFile != "" {
		fmt.Printf("[%s]\t\t= DataFile\n", ip.DataFile)
	}
	fmt.Printf("%v\t\t= Targets\n", ip.Targets)
	fmt.Printf("[%s]\t\t= Direction\n", ip.Direction)
	fmt.Printf("[%d]\t\t\t= Folds\n", ip.Folds)
	if ip.Shuffle {
		fmt.Printf("[%d]\t\t\t= Shuffle Seed\n", ip.Seed)
	}
	if ip.GridPoints != 0 {
		fmt.Printf("%8.5f\t\t= GridMax\n", ip.GridMax)
		fmt.Printf("[%d]\t\t\t= GridPoints\n", ip.GridPoints)
	}
}
