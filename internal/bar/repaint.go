package bar

import "fmt"

// staleSpans returns the regions of prev that next no longer covers.
// Nothing is cleared when a section keeps or grows its width.
func staleSpans(a Alignment, prev, next Section) []Span {
	if prev.Width() <= next.Width() {
		return nil
	}

	var spans []Span
	switch a {
	case AlignLeft:
		spans = append(spans, Span{Left: next.Right, Right: prev.Right})
	case AlignRight:
		spans = append(spans, Span{Left: prev.Left, Right: next.Left})
	case AlignCenter:
		spans = append(spans,
			Span{Left: prev.Left, Right: next.Left},
			Span{Left: next.Right, Right: prev.Right},
		)
	}

	out := spans[:0]
	for _, s := range spans {
		if s.Width() > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Repaint clears the regions next stops covering and draws every
// non-empty fragment of next. It returns the cleared spans. On error the
// surface may be partially drawn and the caller must keep prev as its
// baseline.
func Repaint(d Drawer, prev, next Frame, s Settings) ([]Span, error) {
	var cleared []Span
	for _, a := range alignments {
		for _, span := range staleSpans(a, *prev.Section(a), *next.Section(a)) {
			if err := d.FillRect(span.Left, 0, span.Width(), s.Height, s.Background); err != nil {
				return cleared, fmt.Errorf("clear %s [%d,%d): %w", a, span.Left, span.Right, err)
			}
			cleared = append(cleared, span)
		}
	}

	for _, a := range alignments {
		if err := paintSection(d, *next.Section(a), s); err != nil {
			return cleared, fmt.Errorf("%s section: %w", a, err)
		}
	}
	return cleared, nil
}

func paintSection(d Drawer, section Section, s Settings) error {
	for _, item := range section.Items {
		for i, t := range item.Texts {
			if t.Text == "" {
				continue
			}

			fg := s.Foreground()
			if t.Fg != nil {
				fg = *t.Fg
			}
			bg := s.Background
			if t.Bg != nil {
				bg = *t.Bg
			}

			frag := item.Fragments[i]
			x := section.Left + item.Left + frag.Left

			if err := d.FillRect(x, 0, frag.Width(), s.Height, bg); err != nil {
				return err
			}
			d.SetForeground(fg)
			d.SetBackground(bg)
			if err := d.DrawText(t.Text, x, 0); err != nil {
				return fmt.Errorf("draw %q: %w", t.Text, err)
			}
		}
	}
	return nil
}
