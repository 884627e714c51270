package model

import "time"

// BackupVersion is the document layout written by exports.
const BackupVersion = 1

// Backup is a full export of the store.
type Backup struct {
	Version          int               `json:"version"`
	ExportedAt       time.Time         `json:"exportedAt"`
	Accounts         []Account         `json:"accounts"`
	Stocks           []Stock           `json:"stocks"`
	Holdings         []Holding         `json:"holdings"`
	CorporateActions []CorporateAction `json:"corporateActions"`
	Prices           []StockPrice      `json:"prices"`
}

// ImportSummary counts the rows restored by an import.
type ImportSummary struct {
	Accounts         int `json:"accounts"`
	Stocks           int `json:"stocks"`
	Holdings         int `json:"holdings"`
	CorporateActions int `json:"corporateActions"`
	Prices           int `json:"prices"`
}
