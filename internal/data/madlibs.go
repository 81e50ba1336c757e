package data

// PostprocessMadlibs maps the raw madlibs schema (Label BAD/NOT_BAD, Text)
// onto the canonical label/text columns. Other columns are kept after them.
func PostprocessMadlibs(t *Table) (*Table, error) {
	raw, err := t.Strings(RawLabelColumn)
	if err != nil {
		return nil, err
	}
	text, err := t.Strings(RawTextColumn)
	if err != nil {
		return nil, err
	}
	labels := make([]bool, len(raw))
	for i, v := range raw {
		labels[i] = v == RawLabelBad
	}
	out, err := t.Without(RawLabelColumn, RawTextColumn)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithBools(LabelColumn, labels); err != nil {
		return nil, err
	}
	if out, err = out.WithStrings(TextColumn, text); err != nil {
		return nil, err
	}
	return out.Select(LabelColumn, TextColumn)
}
