package entity

import "testing"

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		input   string
		want    EntityType
		wantErr bool
	}{
		{"table", Table, false},
		{"Table", Table, false},
		{"VIEW", View, false},
		{"StoredProcedure", StoredProcedure, false},
		{"stored_procedure", StoredProcedure, false},
		{"proc", StoredProcedure, false},
		{"function", Function, false},
		{"udf", Function, false},
		{"trigger", "", true},
		{"", "", true},
		{"tabel", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEntityType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEntityType(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEntityType(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEntityType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDependencyTypeDefaultsToUnknown(t *testing.T) {
	tests := []struct {
		input string
		want  DependencyType
	}{
		{"select", DepSelect},
		{"SELECT", DepSelect},
		{"insert", DepInsert},
		{"update", DepUpdate},
		{"delete", DepDelete},
		{"SchemaDependency", DepSchemaDependency},
		{"schema_dependency", DepSchemaDependency},
		{"ApiCall", DepApiCall},
		{"logical_fk", DepLogicalFk},
		{"merge", DepUnknown},
		{"", DepUnknown},
		{"garbage", DepUnknown},
	}

	for _, tt := range tests {
		if got := ParseDependencyType(tt.input); got != tt.want {
			t.Errorf("ParseDependencyType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDependencySeverityOrdering(t *testing.T) {
	// Delete > SchemaDependency > Update > Insert > ApiCall = LogicalFk > Select > Unknown
	ordered := []DependencyType{
		DepDelete, DepSchemaDependency, DepUpdate, DepInsert, DepApiCall, DepSelect, DepUnknown,
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Severity() <= ordered[i].Severity() {
			t.Errorf("expected %v to outrank %v", ordered[i-1], ordered[i])
		}
	}

	if DepApiCall.Severity() != DepLogicalFk.Severity() {
		t.Errorf("ApiCall and LogicalFk should share a severity rank")
	}
}

func TestMaxDependencyType(t *testing.T) {
	if got := MaxDependencyType(DepSelect, DepDelete); got != DepDelete {
		t.Errorf("MaxDependencyType(select, delete) = %v", got)
	}
	if got := MaxDependencyType(DepDelete, DepSelect); got != DepDelete {
		t.Errorf("MaxDependencyType(delete, select) = %v", got)
	}
	// Ties keep the running value.
	if got := MaxDependencyType(DepApiCall, DepLogicalFk); got != DepApiCall {
		t.Errorf("MaxDependencyType(api-call, logical-fk) = %v", got)
	}
}

func TestEntityRefIdentity(t *testing.T) {
	a := EntityRef{Type: Table, Id: "42", Name: "orders"}
	b := EntityRef{Type: Table, Id: "42", Name: "orders_renamed"}
	c := EntityRef{Type: View, Id: "42", Name: "orders"}

	if !a.SameEntity(b) {
		t.Errorf("refs differing only in name should be the same entity")
	}
	if a.SameEntity(c) {
		t.Errorf("refs with different types should not be the same entity")
	}
	if a.Ident() != b.Ident() {
		t.Errorf("Ident() should collapse display names")
	}
	if a.Key() != "table:42" {
		t.Errorf("Key() = %q, want table:42", a.Key())
	}
}

func TestClampCriticality(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{0, DefaultCriticality},
		{-1, DefaultCriticality},
		{1, 1},
		{3, 3},
		{5, 5},
		{9, 5},
	}
	for _, tt := range tests {
		if got := ClampCriticality(tt.input); got != tt.want {
			t.Errorf("ClampCriticality(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseChangeType(t *testing.T) {
	if got, err := ParseChangeType("Drop"); err != nil || got != ChangeDelete {
		t.Errorf("ParseChangeType(Drop) = %v, %v", got, err)
	}
	if _, err := ParseChangeType("rename"); err == nil {
		t.Errorf("ParseChangeType(rename) expected error")
	}
}
