package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

type result struct {
	out    string
	errOut string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func fileArgs(dir string, args ...string) []string {
	return append(args, "--storage", "file", "--storage-path", dir, "--log-level", "error")
}

func memoryArgs(args ...string) []string {
	return append(args, "--storage", "memory", "--log-level", "error")
}

func showJSON(t *testing.T, args ...string) cartView {
	t.Helper()

	res := execute(t, "", append([]string{"show", "--json"}, args...)...)
	require.NoError(t, res.err, res.errOut)

	var view cartView
	require.NoError(t, json.Unmarshal([]byte(res.out), &view))
	return view
}

func TestAddAndShow_PersistAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	res := execute(t, "", fileArgs(dir, "add", "7", "--name", "Home Jersey", "--price", "42.00", "--qty", "2")...)
	require.NoError(t, res.err, res.errOut)
	require.Contains(t, res.out, "added line")

	res = execute(t, "", fileArgs(dir, "show")...)
	require.NoError(t, res.err, res.errOut)
	require.Contains(t, res.out, "Home Jersey")
	require.Contains(t, res.out, "Subtotal:  $84.00")
	require.Contains(t, res.out, "Total:     $84.00")

	// Повторное добавление того же товара объединяется в одну строку.
	res = execute(t, "", fileArgs(dir, "add", "7", "--name", "Home Jersey", "--price", "42.00")...)
	require.NoError(t, res.err, res.errOut)
	require.Contains(t, res.out, "merged line")

	view := showJSON(t, "--storage", "file", "--storage-path", dir)
	require.Len(t, view.Items, 1)
	require.Equal(t, 3, view.Items[0].Quantity)
	require.Equal(t, 3, view.Totals.Items)
}

func TestAdd_RefusedOverStockLimit(t *testing.T) {
	dir := t.TempDir()
	ball := []string{"add", "9", "--name", "Signed Ball", "--price", "120", "--max-qty", "2"}

	res := execute(t, "", fileArgs(dir, append(ball, "--qty", "2")...)...)
	require.NoError(t, res.err, res.errOut)

	res = execute(t, "", fileArgs(dir, ball...)...)
	require.Error(t, res.err)
	require.True(t, domain.IsStockLimit(res.err))

	view := showJSON(t, "--storage", "file", "--storage-path", dir)
	require.Len(t, view.Items, 1)
	require.Equal(t, 2, view.Items[0].Quantity)
}

func TestAdd_InvalidInput(t *testing.T) {
	res := execute(t, "", memoryArgs("add", "7", "--qty", "0")...)
	require.True(t, errors.Is(res.err, domain.ErrInvalidQuantity))

	res = execute(t, "", memoryArgs("add", "seven")...)
	require.ErrorContains(t, res.err, "invalid product id")

	res = execute(t, "", memoryArgs("add", "7", "--price", "abc")...)
	require.ErrorContains(t, res.err, "invalid --price")
}

func TestUpdateAndRemove(t *testing.T) {
	dir := t.TempDir()

	res := execute(t, "", fileArgs(dir, "add", "7", "--name", "Scarf", "--price", "19.99", "--max-qty", "5")...)
	require.NoError(t, res.err, res.errOut)

	view := showJSON(t, "--storage", "file", "--storage-path", dir)
	require.Len(t, view.Items, 1)
	id := func() string { return strconv.FormatInt(view.Items[0].ID, 10) }

	res = execute(t, "", fileArgs(dir, "update", id(), "4")...)
	require.NoError(t, res.err, res.errOut)
	require.Contains(t, res.out, "updated line")

	res = execute(t, "", fileArgs(dir, "update", id(), "6")...)
	require.True(t, errors.Is(res.err, domain.ErrStockLimitExceeded))

	after := showJSON(t, "--storage", "file", "--storage-path", dir)
	require.Equal(t, 4, after.Items[0].Quantity)

	res = execute(t, "", fileArgs(dir, "remove", id())...)
	require.NoError(t, res.err, res.errOut)

	res = execute(t, "", fileArgs(dir, "remove", id())...)
	require.True(t, errors.Is(res.err, domain.ErrLineNotFound))

	res = execute(t, "", fileArgs(dir, "update", id(), "2")...)
	require.True(t, errors.Is(res.err, domain.ErrLineNotFound))
}

func TestShippingAddressDrivesTax(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, execute(t, "", fileArgs(dir, "add", "7", "--name", "Home Jersey", "--price", "42", "--qty", "2")...).err)
	res := execute(t, "", fileArgs(dir, "ship-to", "--first-name", "Ada", "--city", "Los Angeles", "--state", "CA")...)
	require.NoError(t, res.err, res.errOut)
	require.Contains(t, res.out, "Ada, Los Angeles, CA")

	res = execute(t, "", fileArgs(dir, "show")...)
	require.NoError(t, res.err, res.errOut)
	require.Contains(t, res.out, "Tax:       $8.19")
	require.Contains(t, res.out, "Total:     $92.19")

	require.NoError(t, execute(t, "", fileArgs(dir, "ship-to", "--clear")...).err)
	view := showJSON(t, "--storage", "file", "--storage-path", dir)
	require.Nil(t, view.Shipping)
	require.True(t, decimal.RequireFromString("84").Equal(view.Totals.Total))
}

func TestShell_SessionFieldsAndCheckout(t *testing.T) {
	script := strings.Join([]string{
		`add 7 --name "Home Jersey" --price 42 --qty 2`,
		`coupon SAVE10 --type fixed_cart --amount 10`,
		`note "leave at the door"`,
		`show`,
		`checkout --clear`,
		`show`,
		`exit`,
	}, "\n")

	res := execute(t, script, memoryArgs("shell")...)
	require.NoError(t, res.err, res.errOut)

	require.Contains(t, res.out, "coupon SAVE10 applied: discount $10.00")
	require.Contains(t, res.out, "Discount:  -$10.00")
	require.Contains(t, res.out, "Total:     $74.00")
	require.Contains(t, res.out, "Note:      leave at the door")
	require.Contains(t, res.out, `"total": "74.00"`)
	require.Contains(t, res.out, "cart is empty")
	require.Contains(t, res.errOut, "handed off: 2 items, total $74.00")
}

func TestShell_ReportsErrorsAndContinues(t *testing.T) {
	script := "remove 42\nshell\nupdate\nversion\nquit\n"

	res := execute(t, script, memoryArgs("shell")...)
	require.NoError(t, res.err)
	require.Contains(t, res.errOut, "line not found")
	require.Contains(t, res.errOut, "already in shell")
	require.Contains(t, res.out, "fanwaves-cart version=")
}

func TestCheckout_EmptyCart(t *testing.T) {
	res := execute(t, "", memoryArgs("checkout")...)
	require.True(t, errors.Is(res.err, domain.ErrCartEmpty))
}

func TestToggle(t *testing.T) {
	res := execute(t, "open\ntoggle\ntoggle\nclose\nexit\n", memoryArgs("shell")...)
	require.NoError(t, res.err)
	require.Equal(t, 2, strings.Count(res.out, "cart is open"))
	require.Equal(t, 2, strings.Count(res.out, "cart is closed"))
}

func TestDoctor(t *testing.T) {
	res := execute(t, "", fileArgs(t.TempDir(), "doctor")...)
	require.NoError(t, res.err, res.errOut)

	var report struct {
		Status string         `json:"status"`
		Checks map[string]any `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &report))
	require.Equal(t, "healthy", report.Status)
	require.Contains(t, report.Checks, "snapshot-store")
}

func TestVersion_NoRuntime(t *testing.T) {
	// Неподдерживаемый драйвер не мешает: version не открывает корзину.
	res := execute(t, "", "version", "--storage", "sqlite")
	require.NoError(t, res.err)
	require.Contains(t, res.out, "fanwaves-cart version=")
}

func TestUnsupportedStorage(t *testing.T) {
	res := execute(t, "", "show", "--storage", "sqlite")
	require.True(t, errors.Is(res.err, domain.ErrUnsupportedStorage))
}

func TestConfig_EnvAndFile(t *testing.T) {
	t.Setenv("FANWAVES_STORAGE", "memory")
	t.Setenv("FANWAVES_CART_KEY", "from-env")

	view := showJSON(t)
	require.Equal(t, "from-env", view.Key)

	path := filepath.Join(t.TempDir(), "fanwaves.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: memory\ncart-key: from-file\n"), 0o600))
	t.Setenv("FANWAVES_CART_KEY", "")

	view = showJSON(t, "--config", path)
	require.Equal(t, "from-file", view.Key)

	// Флаг побеждает и файл, и окружение.
	view = showJSON(t, "--config", path, "--cart-key", "from-flag")
	require.Equal(t, "from-flag", view.Key)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "show", want: []string{"show"}},
		{line: "  add  7\t--qty 2 ", want: []string{"add", "7", "--qty", "2"}},
		{line: `note "leave at the door"`, want: []string{"note", "leave at the door"}},
		{line: `add 7 --name 'Home Jersey'`, want: []string{"add", "7", "--name", "Home Jersey"}},
		{line: `note ""`, want: []string{"note", ""}},
		{line: `note "open`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
