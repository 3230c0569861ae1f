package db

type Probe struct {
	FEN      string
	Key      uint64
	BookPath string
	MoveUCI  string
	PickBest bool
}

type ProbeRow struct {
	ID       int64  `db:"id" json:"id"`
	ProbedAt string `db:"probed_at" json:"probed_at"`
	FEN      string `db:"fen" json:"fen"`
	Key      string `db:"book_key" json:"key"`
	BookPath string `db:"book_path" json:"book_path"`
	MoveUCI  string `db:"move_uci" json:"move"`
	PickBest bool   `db:"pick_best" json:"pick_best"`
}
