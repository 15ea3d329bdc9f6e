package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

// PLYFormat is the body encoding declared in a PLY header
type PLYFormat int

const (
	PLYASCII PLYFormat = iota
	PLYBinaryLittleEndian
	PLYBinaryBigEndian
)

// PLYProperty describes one property of a PLY element
type PLYProperty struct {
	Name      string
	Type      string
	IsList    bool
	CountType string
}

// PLYElement describes one element block of a PLY file
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYHeader is the parsed header of a PLY file
type PLYHeader struct {
	Format   PLYFormat
	Elements []PLYElement
}

// PLYData holds the shared-vertex mesh read from a PLY file. Normals and UVs
// are nil when the file does not carry them. Faces are triangulated.
type PLYData struct {
	Vertices []mgl64.Vec3
	Normals  []mgl64.Vec3
	UVs      []mgl64.Vec2
	Faces    []int
}

// LoadPLY reads a PLY file and expands it into a triangle soup
func LoadPLY(path string) (*geometry.TriangleSoup, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PLY file")
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data.Soup(), nil
}

// Soup expands the indexed mesh into a triangle soup with material 0
func (d *PLYData) Soup() *geometry.TriangleSoup {
	b := geometry.NewMeshBuilder()
	b.AddIndexed(geometry.IndexedMesh{
		Positions: d.Vertices,
		Normals:   d.Normals,
		UVs:       d.UVs,
		Faces:     d.Faces,
	})
	return b.Build()
}

// ReadPLY parses a PLY stream in ascii or binary encoding
func ReadPLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReader(r)
	header, err := readPLYHeader(br)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.Format {
	case PLYASCII:
		values = &asciiValueReader{scanner: newWordScanner(br)}
	case PLYBinaryLittleEndian:
		values = &binaryValueReader{r: br, order: binary.LittleEndian}
	case PLYBinaryBigEndian:
		values = &binaryValueReader{r: br, order: binary.BigEndian}
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readPLYVertices(values, element, data)
		case "face":
			err = readPLYFaces(values, element, data)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "element %s", element.Name)
		}
	}

	if data.Vertices == nil {
		return nil, errors.New("PLY file has no vertex element")
	}
	for _, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, errors.Errorf("face index %d out of range [0, %d)", idx, len(data.Vertices))
		}
	}
	return data, nil
}

func readPLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	line, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "ply" {
		return nil, errors.New("not a PLY file")
	}

	header := &PLYHeader{}
	formatSeen := false
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "unterminated PLY header")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, errors.New("malformed format line")
			}
			switch fields[1] {
			case "ascii":
				header.Format = PLYASCII
			case "binary_little_endian":
				header.Format = PLYBinaryLittleEndian
			case "binary_big_endian":
				header.Format = PLYBinaryBigEndian
			default:
				return nil, errors.Errorf("unsupported PLY format %q", fields[1])
			}
			formatSeen = true
		case "element":
			if len(fields) != 3 {
				return nil, errors.Errorf("malformed element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, errors.Errorf("invalid element count %q", fields[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: fields[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, errors.New("property declared before any element")
			}
			prop, err := parsePLYProperty(fields)
			if err != nil {
				return nil, err
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Properties = append(last.Properties, prop)
		case "comment", "obj_info":
		case "end_header":
			if !formatSeen {
				return nil, errors.New("PLY header has no format line")
			}
			return header, nil
		default:
			return nil, errors.Errorf("unknown header keyword %q", fields[0])
		}
	}
}

func parsePLYProperty(fields []string) (PLYProperty, error) {
	if len(fields) == 5 && fields[1] == "list" {
		if plyTypeSize(fields[2]) == 0 || plyTypeSize(fields[3]) == 0 {
			return PLYProperty{}, errors.Errorf("unknown list types %s %s", fields[2], fields[3])
		}
		return PLYProperty{Name: fields[4], Type: fields[3], IsList: true, CountType: fields[2]}, nil
	}
	if len(fields) != 3 {
		return PLYProperty{}, errors.Errorf("malformed property line %q", strings.Join(fields, " "))
	}
	if plyTypeSize(fields[1]) == 0 {
		return PLYProperty{}, errors.Errorf("unknown property type %q", fields[1])
	}
	return PLYProperty{Name: fields[2], Type: fields[1]}, nil
}

// plyTypeSize returns the byte size of a scalar type, 0 if unknown
func plyTypeSize(typ string) int {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}

func readPLYVertices(values plyValueReader, element PLYElement, data *PLYData) error {
	slot := map[string]int{}
	for i, prop := range element.Properties {
		slot[prop.Name] = i
	}
	axis := func(names ...string) int {
		for _, name := range names {
			if i, ok := slot[name]; ok {
				return i
			}
		}
		return -1
	}

	px, py, pz := axis("x"), axis("y"), axis("z")
	if px < 0 || py < 0 || pz < 0 {
		return errors.New("vertex element needs x, y and z")
	}
	nx, ny, nz := axis("nx"), axis("ny"), axis("nz")
	hasNormals := nx >= 0 && ny >= 0 && nz >= 0
	u, v := axis("u", "s", "texture_u"), axis("v", "t", "texture_v")
	hasUVs := u >= 0 && v >= 0

	data.Vertices = make([]mgl64.Vec3, element.Count)
	if hasNormals {
		data.Normals = make([]mgl64.Vec3, element.Count)
	}
	if hasUVs {
		data.UVs = make([]mgl64.Vec2, element.Count)
	}

	row := make([]float64, len(element.Properties))
	for i := 0; i < element.Count; i++ {
		for p, prop := range element.Properties {
			if prop.IsList {
				if err := skipPLYList(values, prop); err != nil {
					return err
				}
				continue
			}
			val, err := values.Read(prop.Type)
			if err != nil {
				return errors.Wrapf(err, "vertex %d", i)
			}
			row[p] = val
		}
		data.Vertices[i] = mgl64.Vec3{row[px], row[py], row[pz]}
		if hasNormals {
			data.Normals[i] = mgl64.Vec3{row[nx], row[ny], row[nz]}
		}
		if hasUVs {
			data.UVs[i] = mgl64.Vec2{row[u], row[v]}
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, element PLYElement, data *PLYData) error {
	indexProp := -1
	for i, prop := range element.Properties {
		if prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
			indexProp = i
		}
	}
	if indexProp < 0 {
		return errors.New("face element needs a vertex_indices list")
	}

	data.Faces = make([]int, 0, element.Count*3)
	polygon := make([]int, 0, 4)
	for i := 0; i < element.Count; i++ {
		for p, prop := range element.Properties {
			if p != indexProp {
				if err := skipPLYProperty(values, prop); err != nil {
					return err
				}
				continue
			}

			count, err := values.Read(prop.CountType)
			if err != nil {
				return errors.Wrapf(err, "face %d", i)
			}
			if count < 3 {
				return errors.Errorf("face %d has %d vertices", i, int(count))
			}
			polygon = polygon[:0]
			for k := 0; k < int(count); k++ {
				idx, err := values.Read(prop.Type)
				if err != nil {
					return errors.Wrapf(err, "face %d", i)
				}
				polygon = append(polygon, int(idx))
			}
			// Fan triangulation around the first corner
			for k := 1; k+1 < len(polygon); k++ {
				data.Faces = append(data.Faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipPLYProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipPLYList(values, prop)
	}
	_, err := values.Read(prop.Type)
	return err
}

func skipPLYList(values plyValueReader, prop PLYProperty) error {
	count, err := values.Read(prop.CountType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := values.Read(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// plyValueReader reads one scalar of the given PLY type from the body
type plyValueReader interface {
	Read(typ string) (float64, error)
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValueReader) Read(typ string) (float64, error) {
	size := plyTypeSize(typ)
	if _, err := io.ReadFull(b.r, b.buf[:size]); err != nil {
		return 0, errors.Wrap(err, "truncated PLY body")
	}
	raw := b.buf[:size]
	switch typ {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	default:
		return math.Float64frombits(b.order.Uint64(raw)), nil
	}
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func newWordScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return s
}

func (a *asciiValueReader) Read(typ string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, errors.Wrap(err, "failed to read PLY body")
		}
		return 0, errors.New("truncated PLY body")
	}
	val, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s value", typ)
	}
	return val, nil
}
