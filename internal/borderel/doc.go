// Package borderel produces the weekly "borderel van ontvangsten", the
// settlement report a cinema files per film and play week. It folds the
// stored daily sales into totals, derives the used ticket number ranges, and
// renders the fixed single-page layout distributors expect.
package borderel
