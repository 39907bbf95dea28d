package models

// Table names shared by the export map, the sync conflict report and the
// remote backend's sync_metadata bookkeeping.
const (
	TableExpenses    = "expenses"
	TableBalance     = "balance"
	TableSavings     = "savings"
	TableInvestments = "investments"
	TableSheetConfig = "sheetConfig"
)

// DataExport is a full in-memory snapshot of every table, as produced by
// Repository.ExportData and consumed by ImportData.
type DataExport struct {
	Expenses    []Expense      `json:"expenses"`
	Balance     []Balance      `json:"balance"`
	Savings     []SavingsGoal  `json:"savings"`
	Investments []Investment   `json:"investments"`
	SheetConfig []SheetsConfig `json:"sheetConfig"`
}

// ExportTable is one table of a snapshot in a backend-agnostic shape.
type ExportTable struct {
	Name    string
	Records []any
}

// Tables returns the snapshot's tables in a fixed order so checksums and
// conflict reports are deterministic.
func (d *DataExport) Tables() []ExportTable {
	tables := []ExportTable{
		{Name: TableExpenses, Records: make([]any, len(d.Expenses))},
		{Name: TableBalance, Records: make([]any, len(d.Balance))},
		{Name: TableSavings, Records: make([]any, len(d.Savings))},
		{Name: TableInvestments, Records: make([]any, len(d.Investments))},
		{Name: TableSheetConfig, Records: make([]any, len(d.SheetConfig))},
	}
	for i := range d.Expenses {
		tables[0].Records[i] = d.Expenses[i]
	}
	for i := range d.Balance {
		tables[1].Records[i] = d.Balance[i]
	}
	for i := range d.Savings {
		tables[2].Records[i] = d.Savings[i]
	}
	for i := range d.Investments {
		tables[3].Records[i] = d.Investments[i]
	}
	for i := range d.SheetConfig {
		tables[4].Records[i] = d.SheetConfig[i]
	}
	return tables
}

// TotalRecords counts every record across all tables.
func (d *DataExport) TotalRecords() int {
	return len(d.Expenses) + len(d.Balance) + len(d.Savings) + len(d.Investments) + len(d.SheetConfig)
}
