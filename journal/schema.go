package journal

// Decimals are TEXT so sqlite's numeric affinity never rounds them.
const Schema = `
CREATE TABLE IF NOT EXISTS strategies (
	strategy_id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT,
	opened_at DATETIME NOT NULL,
	closed_at DATETIME,
	pnl_currency TEXT,
	pnl_percent TEXT,
	pnl_r TEXT,
	strategy_id TEXT REFERENCES strategies(strategy_id) ON DELETE SET NULL,
	setup_type TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_opened_at ON trades(opened_at);

CREATE TABLE IF NOT EXISTS trade_images (
	image_id TEXT PRIMARY KEY,
	trade_id TEXT NOT NULL REFERENCES trades(trade_id) ON DELETE CASCADE,
	url TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trade_images_trade ON trade_images(trade_id);
`
