package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Population counts at window end
	Plants      int `csv:"plants"`
	GrownPlants int `csv:"grown_plants"`
	Herbivores  int `csv:"herbivores"`
	Omnivores   int `csv:"omnivores"`

	// Births and starvation during window
	HerbBirths  int `csv:"herb_births"`
	OmniBirths  int `csv:"omni_births"`
	HerbStarved int `csv:"herb_starved"`
	OmniStarved int `csv:"omni_starved"`

	// Feeding
	HerbMeals       int `csv:"herb_meals"`
	OmniMeals       int `csv:"omni_meals"`
	PlantsEaten     int `csv:"plants_eaten"`
	HerbivoresEaten int `csv:"herbivores_eaten"`
	OmnivoresEaten  int `csv:"omnivores_eaten"`
	EnergyGained    int `csv:"energy_gained"`

	// Other actions
	Moves     int `csv:"moves"`
	Idles     int `csv:"idles"`
	Regrown   int `csv:"regrown"`
	Recovered int `csv:"recovered_errors"`

	// Energy distribution (sampled at window end)
	HerbEnergyMean float64 `csv:"herb_energy_mean"`
	HerbEnergyStd  float64 `csv:"herb_energy_std"`
	HerbEnergyP10  float64 `csv:"herb_energy_p10"`
	HerbEnergyP50  float64 `csv:"herb_energy_p50"`
	HerbEnergyP90  float64 `csv:"herb_energy_p90"`

	OmniEnergyMean float64 `csv:"omni_energy_mean"`
	OmniEnergyStd  float64 `csv:"omni_energy_std"`
	OmniEnergyP10  float64 `csv:"omni_energy_p10"`
	OmniEnergyP50  float64 `csv:"omni_energy_p50"`
	OmniEnergyP90  float64 `csv:"omni_energy_p90"`
}

// EnergyStats summarises an energy distribution.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeEnergyStats calculates mean, sample standard deviation and
// empirical percentiles. Empty input yields zeros.
func ComputeEnergyStats(values []float64) EnergyStats {
	n := len(values)
	if n == 0 {
		return EnergyStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	es := EnergyStats{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		es.Std = stat.StdDev(sorted, nil)
	}
	return es
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("plants", s.Plants),
		slog.Int("grown_plants", s.GrownPlants),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("omnivores", s.Omnivores),
		slog.Int("herb_births", s.HerbBirths),
		slog.Int("omni_births", s.OmniBirths),
		slog.Int("herb_starved", s.HerbStarved),
		slog.Int("omni_starved", s.OmniStarved),
		slog.Int("herb_meals", s.HerbMeals),
		slog.Int("omni_meals", s.OmniMeals),
		slog.Int("plants_eaten", s.PlantsEaten),
		slog.Int("herbivores_eaten", s.HerbivoresEaten),
		slog.Int("omnivores_eaten", s.OmnivoresEaten),
		slog.Int("energy_gained", s.EnergyGained),
		slog.Int("moves", s.Moves),
		slog.Int("idles", s.Idles),
		slog.Int("regrown", s.Regrown),
		slog.Int("recovered_errors", s.Recovered),
		slog.Float64("herb_energy_mean", s.HerbEnergyMean),
		slog.Float64("herb_energy_std", s.HerbEnergyStd),
		slog.Float64("herb_energy_p50", s.HerbEnergyP50),
		slog.Float64("omni_energy_mean", s.OmniEnergyMean),
		slog.Float64("omni_energy_std", s.OmniEnergyStd),
		slog.Float64("omni_energy_p50", s.OmniEnergyP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"plants", s.Plants,
		"grown_plants", s.GrownPlants,
		"herbivores", s.Herbivores,
		"omnivores", s.Omnivores,
		"herb_births", s.HerbBirths,
		"omni_births", s.OmniBirths,
		"herb_starved", s.HerbStarved,
		"omni_starved", s.OmniStarved,
		"herb_meals", s.HerbMeals,
		"omni_meals", s.OmniMeals,
		"plants_eaten", s.PlantsEaten,
		"herbivores_eaten", s.HerbivoresEaten,
		"omnivores_eaten", s.OmnivoresEaten,
		"moves", s.Moves,
		"idles", s.Idles,
		"regrown", s.Regrown,
		"herb_energy_mean", s.HerbEnergyMean,
		"omni_energy_mean", s.OmniEnergyMean,
	)
}
