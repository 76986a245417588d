// Package xlsxio encodes and decodes sheet data as .xlsx workbooks. It is
// the only package that touches the spreadsheet file format; everything
// above it works on sheet.Sheet values.
package xlsxio
