package model

// Column is a warehouse column as reported by information_schema.
type Column struct {
	Name     string `bun:"column_name" json:"name" msgpack:"name"`
	DataType string `bun:"data_type" json:"dataType" msgpack:"dataType"`
}

// Table is an allowlisted warehouse table.
type Table struct {
	Name string `json:"name"`
}
