package request

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/courier/internal/domain"
)

// rowWidgets digs the entry widgets out of row i.
func rowWidgets(t *testing.T, e *ParamsEditor, i int) (*widget.Check, *widget.Entry, *widget.Entry) {
	t.Helper()
	require.Less(t, i, len(e.rows.Objects))
	row := e.rows.Objects[i].(*fyne.Container)

	var check *widget.Check
	var grid *fyne.Container
	for _, o := range row.Objects {
		switch v := o.(type) {
		case *widget.Check:
			check = v
		case *fyne.Container:
			if len(v.Objects) == 2 {
				if _, ok := v.Objects[0].(*widget.Entry); ok {
					grid = v
				}
			}
		}
	}
	require.NotNil(t, check)
	require.NotNil(t, grid)
	return check, grid.Objects[0].(*widget.Entry), grid.Objects[1].(*widget.Entry)
}

func TestParamsEditor_StartsWithOneRow(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewParamsEditor("Key", "Value")
	assert.Equal(t, domain.Params{domain.NewParam("", "")}, e.Params())
	assert.Len(t, e.rows.Objects, 1)
}

func TestParamsEditor_EditsReportChanges(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewParamsEditor("Key", "Value")
	var got domain.Params
	e.SetOnChanged(func(ps domain.Params) { got = ps })

	check, key, val := rowWidgets(t, e, 0)
	test.Type(key, "page")
	test.Type(val, "2")
	assert.Equal(t, domain.Params{domain.NewParam("page", "2")}, got)

	check.SetChecked(false)
	assert.False(t, got[0].Enabled)
}

func TestParamsEditor_SetParamsDoesNotNotify(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewParamsEditor("Key", "Value")
	calls := 0
	e.SetOnChanged(func(domain.Params) { calls++ })

	e.SetParams(domain.Params{domain.NewParam("a", "1"), domain.NewParam("b", "2")})
	assert.Equal(t, 0, calls)
	assert.Len(t, e.rows.Objects, 2)

	_, key, val := rowWidgets(t, e, 1)
	assert.Equal(t, "b", key.Text)
	assert.Equal(t, "2", val.Text)
}

func TestParamsEditor_AddRemoveMove(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewParamsEditor("Key", "Value")
	e.SetParams(domain.Params{domain.NewParam("a", "1"), domain.NewParam("b", "2")})

	e.Add()
	assert.Len(t, e.Params(), 3)

	e.MoveRow(0, 1)
	assert.Equal(t, "b", e.Params()[0].Key)
	assert.Equal(t, "a", e.Params()[1].Key)

	e.MoveRow(0, 5)
	assert.Equal(t, "b", e.Params()[0].Key, "out of range move is ignored")

	e.Remove(2)
	e.Remove(1)
	assert.Equal(t, domain.Params{domain.NewParam("b", "2")}, e.Params())

	e.Remove(0)
	assert.Equal(t, domain.Params{domain.NewParam("", "")}, e.Params(), "last row is cleared, not removed")
}

func TestParamsEditor_ParamsReturnsCopy(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewParamsEditor("Key", "Value")
	e.SetParams(domain.Params{domain.NewParam("a", "1")})

	ps := e.Params()
	ps[0].Key = "mutated"
	assert.Equal(t, "a", e.Params()[0].Key)
}

func TestParamsEditor_Renders(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewParamsEditor("Key", "Value")
	w := test.NewWindow(container.NewStack(e))
	defer w.Close()
	assert.NotNil(t, e.CreateRenderer())
}
