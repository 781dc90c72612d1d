package gdoc

import "fmt"

// Validate checks structural consistency of the document: every block and run
// carries payload matching its kind and bullets have sane nesting. It does not
// check presentation values.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrMalformedInput)
	}
	return validateBlocks(d.Blocks, "blocks")
}

func validateBlocks(blocks []Block, path string) error {
	for i := range blocks {
		if err := validateBlock(&blocks[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(b *Block, path string) error {
	switch b.Kind {
	case BlockParagraph:
		if b.Paragraph == nil {
			return fmt.Errorf("%w: %s: paragraph block without paragraph", ErrMalformedInput, path)
		}
		return validateParagraph(b.Paragraph, path)
	case BlockTable:
		if b.Table == nil {
			return fmt.Errorf("%w: %s: table block without table", ErrMalformedInput, path)
		}
		for r, row := range b.Table.Rows {
			for c := range row {
				if err := validateBlocks(row[c].Blocks, fmt.Sprintf("%s.rows[%d].cells[%d]", path, r, c)); err != nil {
					return err
				}
			}
		}
	case BlockSectionBreak:
		if b.SectionBreak == nil {
			return fmt.Errorf("%w: %s: section break block without section break", ErrMalformedInput, path)
		}
	default:
		return fmt.Errorf("%w: %s: unknown block kind %q", ErrMalformedInput, path, b.Kind)
	}
	return nil
}

func validateParagraph(p *Paragraph, path string) error {
	if p.Bullet != nil && p.Bullet.NestingLevel < 0 {
		return fmt.Errorf("%w: %s: negative nesting level %d", ErrMalformedInput, path, p.Bullet.NestingLevel)
	}
	for i, r := range p.Runs {
		switch r.Kind {
		case RunText:
			if r.Text == nil {
				return fmt.Errorf("%w: %s.runs[%d]: text run without text", ErrMalformedInput, path, i)
			}
		case RunObject:
			if r.Object == nil {
				return fmt.Errorf("%w: %s.runs[%d]: object run without object reference", ErrMalformedInput, path, i)
			}
		default:
			return fmt.Errorf("%w: %s.runs[%d]: unknown run kind %q", ErrMalformedInput, path, i, r.Kind)
		}
	}
	return nil
}
