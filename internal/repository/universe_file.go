package repository

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"EntryFeed/internal/domain/repository"
	"EntryFeed/pkg/logger"
)

// defaultUniverse is used when neither an inline list nor a readable
// universe file is configured.
var defaultUniverse = []string{
	"BTC", "ETH", "BNB", "SOL", "XRP", "ADA", "DOGE", "AVAX", "DOT", "LINK",
	"MATIC", "LTC", "ATOM", "UNI", "XLM", "NEAR", "APT", "ARB", "OP", "FIL",
	"INJ", "SUI", "SEI", "TIA", "RNDR", "FET", "GRT", "IMX", "ALGO", "VET",
	"AAVE", "MKR", "SAND", "MANA", "AXS", "GALA", "CHZ", "EOS", "XTZ", "THETA",
	"FLOW", "KAVA", "ROSE", "ONE", "ZIL", "ENJ", "BAT", "DASH", "ZEC", "ETC",
}

var hexLikeRe = regexp.MustCompile(`^[0-9A-F]{2,10}$`)
var tokenRe = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

type universeFileSource struct {
	inline []string
	path   string
	log    *logger.Logger
}

// NewUniverseFileSource resolves coin symbols from an inline list when
// present, otherwise from a newline-delimited file, otherwise from the
// built-in default universe.
func NewUniverseFileSource(inline []string, path string, log *logger.Logger) repository.UniverseSource {
	return &universeFileSource{inline: inline, path: path, log: log}
}

func (u *universeFileSource) Symbols() ([]string, error) {
	if len(u.inline) > 0 {
		return cleanSymbols(u.inline), nil
	}
	if u.path == "" {
		return append([]string(nil), defaultUniverse...), nil
	}

	f, err := os.Open(u.path)
	if err != nil {
		if os.IsNotExist(err) {
			u.log.Warn("universe file missing, using default list",
				logger.String("path", u.path))
			return append([]string(nil), defaultUniverse...), nil
		}
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	var raw []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}

	symbols := cleanSymbols(raw)
	if len(symbols) == 0 {
		u.log.Warn("universe file has no valid symbols, using default list",
			logger.String("path", u.path))
		return append([]string(nil), defaultUniverse...), nil
	}
	return symbols, nil
}

// cleanSymbols uppercases, validates and dedupes while keeping order.
func cleanSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if !validSymbol(sym) {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// validSymbol accepts 2-10 char alphanumeric coin symbols. Quoted pairs are
// excluded rather than rewritten, and pure-hex tokens are rejected because
// contract addresses and pool ids sneak into hand-edited files.
func validSymbol(sym string) bool {
	if !tokenRe.MatchString(sym) {
		return false
	}
	if strings.Contains(sym, "USDT") {
		return false
	}
	return !hexLikeRe.MatchString(sym)
}
