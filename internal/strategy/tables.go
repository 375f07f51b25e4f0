package strategy

// Basic strategy for a multi-deck shoe where the dealer stands on all 17s and
// doubling after a split is allowed. Columns are the dealer upcard 2..A.

const (
	h = Hit
	s = Stand
	d = Double
	p = Split
)

const (
	hardMin = 5
	hardMax = 21
	softMin = 13
	softMax = 21
)

// HardTable rows are hard totals 5..21.
var HardTable = [hardMax - hardMin + 1][10]Action{
	/*  5 */ {h, h, h, h, h, h, h, h, h, h},
	/*  6 */ {h, h, h, h, h, h, h, h, h, h},
	/*  7 */ {h, h, h, h, h, h, h, h, h, h},
	/*  8 */ {h, h, h, h, h, h, h, h, h, h},
	/*  9 */ {h, d, d, d, d, h, h, h, h, h},
	/* 10 */ {d, d, d, d, d, d, d, d, h, h},
	/* 11 */ {d, d, d, d, d, d, d, d, d, h},
	/* 12 */ {h, h, s, s, s, h, h, h, h, h},
	/* 13 */ {s, s, s, s, s, h, h, h, h, h},
	/* 14 */ {s, s, s, s, s, h, h, h, h, h},
	/* 15 */ {s, s, s, s, s, h, h, h, h, h},
	/* 16 */ {s, s, s, s, s, h, h, h, h, h},
	/* 17 */ {s, s, s, s, s, s, s, s, s, s},
	/* 18 */ {s, s, s, s, s, s, s, s, s, s},
	/* 19 */ {s, s, s, s, s, s, s, s, s, s},
	/* 20 */ {s, s, s, s, s, s, s, s, s, s},
	/* 21 */ {s, s, s, s, s, s, s, s, s, s},
}

// SoftTable rows are soft totals 13..21 (A2 through A-T).
var SoftTable = [softMax - softMin + 1][10]Action{
	/* 13 */ {h, h, h, d, d, h, h, h, h, h},
	/* 14 */ {h, h, h, d, d, h, h, h, h, h},
	/* 15 */ {h, h, d, d, d, h, h, h, h, h},
	/* 16 */ {h, h, d, d, d, h, h, h, h, h},
	/* 17 */ {h, d, d, d, d, h, h, h, h, h},
	/* 18 */ {s, d, d, d, d, s, s, h, h, h},
	/* 19 */ {s, s, s, s, s, s, s, s, s, s},
	/* 20 */ {s, s, s, s, s, s, s, s, s, s},
	/* 21 */ {s, s, s, s, s, s, s, s, s, s},
}

// PairTable rows are the paired card's value: 2-2 through T-T, then A-A.
var PairTable = [10][10]Action{
	/* 2-2 */ {p, p, p, p, p, p, h, h, h, h},
	/* 3-3 */ {p, p, p, p, p, p, h, h, h, h},
	/* 4-4 */ {h, h, h, p, p, h, h, h, h, h},
	/* 5-5 */ {d, d, d, d, d, d, d, d, h, h},
	/* 6-6 */ {p, p, p, p, p, h, h, h, h, h},
	/* 7-7 */ {p, p, p, p, p, p, h, h, h, h},
	/* 8-8 */ {p, p, p, p, p, p, p, p, p, p},
	/* 9-9 */ {p, p, p, p, p, s, p, p, s, s},
	/* T-T */ {s, s, s, s, s, s, s, s, s, s},
	/* A-A */ {p, p, p, p, p, p, p, p, p, p},
}
