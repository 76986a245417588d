package commands

import (
	"context"
	"io"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/loader"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/translate"
	"github.com/royalbit/mouvify-forge-sub002/internal/xlsxio"
)

// Export writes the model as an .xlsx workbook: one worksheet per table,
// literal cells for literal values, and translated cell formulas for every
// derived column and scalar so the workbook recomputes on its own.
func Export(ctx context.Context, m *model.Model, w io.Writer) error {
	sheets, err := translate.Export(ctx, m)
	if err != nil {
		return err
	}
	if err := xlsxio.Encode(w, sheets); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("model exported", "sheets", len(sheets))
	return nil
}

// Import reads an .xlsx workbook and reconstructs a model from it,
// translating every cell formula back to identifier syntax.
func Import(ctx context.Context, r io.Reader) (*model.Model, error) {
	sheets, err := xlsxio.Decode(r)
	if err != nil {
		return nil, err
	}
	m, err := translate.Import(ctx, sheets)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("workbook imported",
		"tables", len(m.Tables), "scalars", len(m.Scalars))
	return m, nil
}

// ImportSource is Import rendered onward to model document source, ready
// to be written to a file and loaded again.
func ImportSource(ctx context.Context, r io.Reader) ([]byte, error) {
	m, err := Import(ctx, r)
	if err != nil {
		return nil, err
	}
	return loader.Write(m)
}
