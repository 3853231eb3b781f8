package engine

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrEmptyCatalog = eris.New("catalog has no trials")

var catalogColumns = []string{"city_1", "city_2", "population_1", "population_2"}

// Catalog is the ordered table of trials available to a session.
type Catalog struct {
	Trials []Trial
}

func (c *Catalog) Len() int {
	return len(c.Trials)
}

// LoadCatalog reads a trial catalog CSV. The file must carry a header with
// the city_1, city_2, population_1 and population_2 columns; other columns
// are ignored. encodingName selects the text encoding of the file ("" means
// UTF-8).
func LoadCatalog(path, encodingName string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	defer f.Close()

	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	// A UTF-8 BOM (Excel "CSV UTF-8") wins over the configured encoding.
	return ParseCatalog(transform.NewReader(f, unicode.BOMOverride(enc.NewDecoder())))
}

func ParseCatalog(r io.Reader) (*Catalog, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(bomSkipper(r)))
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyCatalog
		}
		return nil, eris.Wrap(err, "catalog: read header")
	}

	header := dec.Header()
	for _, col := range catalogColumns {
		if !slices.Contains(header, col) {
			return nil, eris.Errorf("catalog: missing column %q", col)
		}
	}

	var trials []Trial
	for line := 2; ; line++ {
		var t Trial
		if err := dec.Decode(&t); err != nil {
			if err == io.EOF {
				break
			}
			return nil, eris.Wrapf(err, "catalog: line %d", line)
		}
		trials = append(trials, t)
	}

	if len(trials) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{Trials: trials}, nil
}

func bomSkipper(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// Windows code page names that the WHATWG index does not carry.
var encodingAliases = map[string]encoding.Encoding{
	"cp932":       japanese.ShiftJIS,
	"ms932":       japanese.ShiftJIS,
	"windows-31j": japanese.ShiftJIS,
	"sjis":        japanese.ShiftJIS,
}

// LookupEncoding resolves an encoding label such as "utf-8", "shift_jis"
// or "cp932".
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return unicode.UTF8, nil
	}
	if enc, ok := encodingAliases[name]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "unknown encoding %q", name)
	}
	if enc == nil {
		return nil, eris.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}
