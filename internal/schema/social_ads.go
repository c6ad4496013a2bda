// Package schema holds the destination table definition for social ads
// records.
package schema

import (
	"socialads/internal/ddl"
	"socialads/internal/records"
)

// TableName is the canonical destination table.
const TableName = "social_ads"

// Column names not covered by records.
const (
	ColID        = "id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// LabelSize bounds the categorical label columns.
const LabelSize = 20

// SocialAds returns the table definition for fqn (TableName when empty).
func SocialAds(fqn string) ddl.TableDef {
	if fqn == "" {
		fqn = TableName
	}
	return ddl.TableDef{
		FQN: fqn,
		Columns: []ddl.ColumnDef{
			{Name: ColID, Type: ddl.TypeSerial, PrimaryKey: true},
			{Name: records.ColAge, Type: ddl.TypeInt},
			{Name: records.ColEstimatedSalary, Type: ddl.TypeFloat},
			{Name: records.ColPurchased, Type: ddl.TypeBool},
			{Name: records.ColAgeGroup, Type: ddl.TypeVarchar, Size: LabelSize, Nullable: true},
			{Name: records.ColSalaryBracket, Type: ddl.TypeVarchar, Size: LabelSize, Nullable: true},
			{Name: ColCreatedAt, Type: ddl.TypeTimestamp, Nullable: true, Default: ddl.DefaultNow},
			{Name: ColUpdatedAt, Type: ddl.TypeTimestamp, Nullable: true, Default: ddl.DefaultNow, OnUpdateNow: true},
		},
	}
}

// InsertColumns is the column order of rows produced by Row.
var InsertColumns = SocialAds("").InsertColumns()

// Row flattens r into InsertColumns order.
func Row(r records.AdRecord) []any {
	return []any{
		int64(r.Age),
		r.EstimatedSalary,
		r.Purchased,
		string(r.AgeGroup),
		string(r.SalaryBracket),
	}
}
