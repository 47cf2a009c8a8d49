package board

// MakeMove applies a move produced by GenerateMoves for the current board.
// Applying any other move leaves the board in an unspecified state.
func (b *Board) MakeMove(m Move) {
	if m.IsInline() {
		b.makeInline(m)
	} else {
		b.makeBroadside(m)
	}
	b.Turn = b.Turn.Other()
}

// makeInline slides a line forward. Only the two ends change: the trailing
// marble lands on the target and, when pushing, the opposing marble on the
// target lands behind the opposing line or falls off the board.
func (b *Board) makeInline(m Move) {
	back := m.Origin.Step(m.Dir, -m.Pulled)
	target := m.Origin.Add(m.Dir)

	if m.Pushed > 0 {
		landing := m.Origin.Step(m.Dir, m.Pushed+1)
		if landing.Valid() {
			b.setColor(landing, m.Color.Other())
		} else if m.Color == Black {
			b.CapturedWhite++
		} else {
			b.CapturedBlack++
		}
	}

	b.setColor(target, m.Color)
	b.setColor(back, Empty)
}

// makeBroadside shifts each marble of the line one step sideways. The move
// direction is never parallel to the line, so no source is overwritten
// before it moves.
func (b *Board) makeBroadside(m Move) {
	for i := 0; i <= m.Pulled; i++ {
		from := m.Origin.Step(m.PullDir, i)
		b.setColor(from.Add(m.Dir), m.Color)
		b.setColor(from, Empty)
	}
}

// UnmakeMove reverts m, which must be the last move applied to b.
func (b *Board) UnmakeMove(m Move) {
	if !m.IsInline() {
		b.MakeMove(Move{
			Color:   m.Color,
			Origin:  m.Origin.Add(m.Dir),
			Dir:     m.Dir.Opposite(),
			PullDir: m.PullDir,
			Pulled:  m.Pulled,
		})
		return
	}

	if m.Pushed == 0 || (m.Pushed == 1 && m.Captures) {
		// Slide the line back; a single captured marble is restored on the
		// target afterwards.
		b.MakeMove(Move{
			Color:   m.Color,
			Origin:  m.Origin.Step(m.Dir, 1-m.Pulled),
			Dir:     m.PullDir,
			PullDir: m.Dir,
			Pulled:  m.Pulled,
		})
		if m.Captures {
			b.restoreCaptured(m.Origin.Add(m.Dir), m.Color.Other())
		}
		return
	}

	// The displaced opponent pushes our line back into place.
	pushedBack := m.Pushed - 1
	if m.Captures {
		pushedBack--
	}
	b.MakeMove(Move{
		Color:   m.Color.Other(),
		Origin:  m.Origin.Step(m.Dir, 2),
		Dir:     m.PullDir,
		PullDir: m.Dir,
		Pulled:  pushedBack,
		Pushed:  m.Pulled + 1,
	})
	if m.Captures {
		b.restoreCaptured(m.Origin.Step(m.Dir, m.Pushed), m.Color.Other())
	}
}

// restoreCaptured puts a marble of color c that had been pushed off back at p.
func (b *Board) restoreCaptured(p Pos, c Color) {
	b.setColor(p, c)
	if c == White {
		b.CapturedWhite--
	} else {
		b.CapturedBlack--
	}
}
