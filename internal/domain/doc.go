// Package domain models Cell2Fire wildfire spread simulation outputs and the
// arithmetic that turns them into geocoded burned pixels.
//
// # Data Source
//
// Simulation runs are produced offline by the Cell2Fire cellular automaton and
// land on durable storage in two trees:
//
//	{data}/{dataset}/Data.csv              reference table, one row per cell
//	{data}/{dataset}/IgnitionPoints.csv    ignition table, column "Ncell"
//	{results}/{dataset}/Grids/Grids{run}/ForestGrid{NN}.csv
//
// Result trees are keyed by the full dataset id (e.g. "9cellsC1_full"); data
// trees are keyed by the base id with the variant suffix stripped ("9cellsC1").
//
// # Cell Conventions
//
// Reference table rows are in row-major order. For a table of N*N rows the
// grid side length is N and row i (0-based) is the cell at
//
//	row = i / N, col = i % N
//
// Ignition tables store a 1-based linear cell id ("Ncell"), so Ncell=5 on a
// 3x3 grid is index 4, position (1, 1). Latitude and longitude columns are
// optional; blank or unparseable values read as 0.0.
//
// Timestep grids are comma-delimited rows of 0 (unburned) and 1 (burned)
// flags. Their row and column indices are grid positions directly.
//
// # Time Cadence
//
// Elapsed minutes map to a timestep file through a Cadence. Two cadences have
// been deployed and they disagree, so each dataset selects one explicitly
// through a PolicySet:
//
//	capped:  0 -> 0; fine-grained -> m/10; otherwise min(m/10, 10)
//	stepped: 0 -> 0; fine-grained -> m/10; otherwise m/30
//
// "Fine-grained" datasets are small fixtures recognized by id prefix
// (default "9cellsC1").
package domain
