package rules

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// ErrUnknownVariant is returned for names missing from the registry.
var ErrUnknownVariant = errors.New("unknown variant")

// Chess960 is generated freshly for every game.
const Chess960 = "chess960"

// Variant is a named starting setup. Piece movement always follows the
// orthodox rules implemented by the rules library.
type Variant struct {
	Name        string `yaml:"name" validate:"required,max=32"`
	StartFEN    string `yaml:"startFen"`
	Description string `yaml:"description" validate:"max=200"`
}

type variantsFile struct {
	Variants []Variant `yaml:"variants" validate:"dive"`
}

// Registry holds the variants known to the application.
type Registry struct {
	variants map[string]Variant
	rng      *rand.Rand
}

// NewRegistry creates a registry with the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{
		variants: make(map[string]Variant),
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
	for _, v := range builtinVariants {
		r.variants[v.Name] = v
	}
	return r
}

var builtinVariants = []Variant{
	{Name: "chess", StartFEN: StandardFEN, Description: "Orthodox chess"},
	{Name: Chess960, Description: "Shuffled back rank, castling disabled"},
	{Name: "nocastle", StartFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1", Description: "Orthodox chess without castling"},
	{Name: "pawns", StartFEN: "4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1", Description: "Kings and pawns only"},
}

// Names returns the registered variant names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named variant.
func (r *Registry) Get(name string) (Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// StartPosition returns a fresh game of the named variant.
func (r *Registry) StartPosition(name string) (Position, error) {
	v, err := r.Get(name)
	if err != nil {
		return Position{}, err
	}
	fen := v.StartFEN
	if v.Name == Chess960 {
		fen = Chess960FEN(r.rng.Intn(960))
	}
	return NewPosition(v.Name, fen), nil
}

// Load reads a YAML variants file and registers its entries. Entries
// override built-ins of the same name.
func (r *Registry) Load(rd io.Reader) ([]string, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}
	var f variantsFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validate variants: %w", err)
	}

	loaded := make([]Variant, 0, len(f.Variants))
	for _, v := range f.Variants {
		v.Name = strings.ToLower(strings.TrimSpace(v.Name))
		if strings.ContainsAny(v.Name, " \t") {
			return nil, fmt.Errorf("variant %q: name must not contain spaces", v.Name)
		}
		if v.StartFEN == "" {
			v.StartFEN = StandardFEN
		}
		if err := ValidateFEN(v.StartFEN); err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Name, err)
		}
		loaded = append(loaded, v)
	}

	names := make([]string, 0, len(loaded))
	for _, v := range loaded {
		r.variants[v.Name] = v
		names = append(names, v.Name)
	}
	return names, nil
}

// LoadFile reads variants from a file path.
func (r *Registry) LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.Load(f)
}

// Chess960FEN returns the Chess960 start position with index n (0-959)
// in Scharnagl numbering, without castling rights.
func Chess960FEN(n int) string {
	n = ((n % 960) + 960) % 960
	rank := make([]byte, 8)
	place := func(piece byte, nth int) {
		for i := range rank {
			if rank[i] != 0 {
				continue
			}
			if nth == 0 {
				rank[i] = piece
				return
			}
			nth--
		}
	}

	n, b1 := n/4, n%4
	rank[2*b1+1] = 'B'
	n, b2 := n/4, n%4
	rank[2*b2] = 'B'
	n, q := n/6, n%6
	place('Q', q)

	knights := [10][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}
	k := knights[n]
	// The second knight index shifts once the first is placed.
	place('N', k[0])
	place('N', k[1]-1)
	place('R', 0)
	place('K', 0)
	place('R', 0)

	white := string(rank)
	black := strings.ToLower(white)
	return black + "/pppppppp/8/8/8/8/PPPPPPPP/" + white + " w - - 0 1"
}
