package cache

import (
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
	"golang.org/x/crypto/blake2b"
)

// HashExpr returns a stable, short digest of tree's canonical
// fingerprint (ast.Fingerprint), used as the cache key for L2/L3/L4.
// blake2b is already part of the dependency graph via golang.org/x/crypto
// and is faster than SHA-2 at this size, so cache keys reuse it rather
// than reaching for a second hashing library.
func HashExpr(tree ast.Expr) string {
	sum := blake2b.Sum256([]byte(ast.Fingerprint(tree)))
	return hex.EncodeToString(sum[:16])
}

// HashEnv returns a stable digest of an Environment's variable
// bindings, independent of map iteration order.
func HashEnv(env *registry.Environment) string {
	if env == nil {
		return "Ø"
	}
	vars := env.Vars()
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(strconv.FormatFloat(vars[name], 'g', -1, 64))
		b.WriteString(";")
	}
	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
