package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() *ProjectDescriptor {
	fields := []ProjectField{
		{ID: "F_status", Name: "Status", DataType: FieldTypeSingleSelect, Options: []string{"Inbox", "Todo", "Done"}},
		{ID: "F_size", Name: "Size", DataType: FieldTypeSingleSelect, Options: []string{"S", "M", "L"}},
		{ID: "F_estimate", Name: "Estimate", DataType: FieldTypeNumber},
	}
	return &ProjectDescriptor{ID: "PVT_1", Title: "Roadmap", Fields: fields, Columns: StatusColumns(fields)}
}

func TestStatusColumns(t *testing.T) {
	// Execute
	cols := StatusColumns(testProject().Fields)

	// Assert
	require.Len(t, cols, 3)
	assert.Equal(t, ProjectColumn{ID: "status-inbox", Name: "Inbox", IsDefault: true}, cols[0])
	assert.Equal(t, ProjectColumn{ID: "status-todo", Name: "Todo", IsDefault: true}, cols[1])
	assert.False(t, cols[2].IsDefault)
}

func TestStatusColumns_NoSingleSelectStatus(t *testing.T) {
	assert.Nil(t, StatusColumns(nil))
	assert.Nil(t, StatusColumns([]ProjectField{{Name: "Status", DataType: FieldTypeText}}))
}

func TestDefaultColumn(t *testing.T) {
	tests := []struct {
		name    string
		columns []ProjectColumn
		want    string
	}{
		{
			name:    "explicit default wins",
			columns: []ProjectColumn{{Name: "Backlog"}, {Name: "Ready", IsDefault: true}},
			want:    "Ready",
		},
		{
			name:    "conventional name",
			columns: []ProjectColumn{{Name: "Doing"}, {Name: "To Do"}, {Name: "Done"}},
			want:    "To Do",
		},
		{
			name:    "backlog preferred over todo",
			columns: []ProjectColumn{{Name: "Todo"}, {Name: "backlog"}},
			want:    "backlog",
		},
		{
			name:    "first column",
			columns: []ProjectColumn{{Name: "Doing"}, {Name: "Done"}},
			want:    "Doing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := DefaultColumn(&ProjectDescriptor{Columns: tt.columns})

			require.NotNil(t, col)
			assert.Equal(t, tt.want, col.Name)
		})
	}
}

func TestDefaultColumn_NoColumns(t *testing.T) {
	assert.Nil(t, DefaultColumn(&ProjectDescriptor{}))
}

func TestProjectDescriptor_Lookups(t *testing.T) {
	p := testProject()

	field, ok := p.Field("size")
	require.True(t, ok)
	assert.Equal(t, "F_size", field.ID)

	opt, ok := field.Option("m")
	assert.True(t, ok)
	assert.Equal(t, "M", opt)

	_, ok = p.Field("Priority")
	assert.False(t, ok)

	status, ok := p.StatusField()
	require.True(t, ok)
	assert.Equal(t, "F_status", status.ID)

	col, ok := p.Column("DONE")
	require.True(t, ok)
	assert.Equal(t, "Done", col.Name)

	assert.Equal(t, []string{"Inbox", "Todo", "Done"}, p.ColumnNames())
	assert.Equal(t, []string{"Status", "Size", "Estimate"}, p.FieldNames())
}

func TestIsBuiltinField(t *testing.T) {
	assert.True(t, IsBuiltinField("Title"))
	assert.True(t, IsBuiltinField("Assignees"))
	assert.False(t, IsBuiltinField("Status"))
}

func TestValidateOverrides(t *testing.T) {
	tests := []struct {
		name   string
		status string
		fields []FieldValue
		errs   []string
	}{
		{
			name:   "valid",
			status: "todo",
			fields: []FieldValue{{Name: "Size", Value: "l"}, {Name: "Estimate", Value: "3"}},
		},
		{
			name:   "empty status is not checked",
			fields: []FieldValue{{Name: "Size", Value: "S"}},
		},
		{
			name:   "unknown status",
			status: "Blocked",
			errs:   []string{`invalid status "Blocked" (available: Inbox, Todo, Done)`},
		},
		{
			name:   "every violation reported",
			status: "Blocked",
			fields: []FieldValue{{Name: "Priority", Value: "P1"}, {Name: "Size", Value: "XL"}},
			errs: []string{
				`invalid status "Blocked" (available: Inbox, Todo, Done)`,
				`invalid field "Priority" (available: Status, Size, Estimate)`,
				`invalid value "XL" for field "Size" (available: S, M, L)`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, errs := ValidateOverrides(testProject(), tt.status, tt.fields)

			assert.Equal(t, len(tt.errs) == 0, ok)
			assert.Equal(t, tt.errs, errs)
		})
	}
}
