package corpusfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The embedding matrix ships in NumPy's .npy container so the same
// artifact works for both the Python tooling and this service. Only the
// layout the index builder produces is supported: little-endian float32,
// C order, two dimensions.

var npyMagic = []byte("\x93NUMPY")

var (
	descrPattern   = regexp.MustCompile(`'descr':\s*'([^']+)'`)
	fortranPattern = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	shapePattern   = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

// ReadMatrix decodes a 2-D float32 .npy stream into row vectors.
func ReadMatrix(r io.Reader) ([][]float32, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(npyMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("failed to read npy magic: %w", err)
	}
	if !bytes.Equal(magic, npyMagic) {
		return nil, fmt.Errorf("not an npy file")
	}

	version := make([]byte, 2)
	if _, err := io.ReadFull(br, version); err != nil {
		return nil, fmt.Errorf("failed to read npy version: %w", err)
	}

	var headerLen int
	switch version[0] {
	case 1:
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("failed to read npy header length: %w", err)
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("failed to read npy header length: %w", err)
		}
		headerLen = int(n)
	default:
		return nil, fmt.Errorf("unsupported npy version %d.%d", version[0], version[1])
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("failed to read npy header: %w", err)
	}

	rows, cols, err := parseHeader(string(header))
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, rows)
	row := make([]byte, cols*4)
	for i := 0; i < rows; i++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("failed to read npy row %d: %w", i, err)
		}
		vec := make([]float32, cols)
		for j := 0; j < cols; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(row[j*4:]))
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func parseHeader(header string) (rows, cols int, err error) {
	m := descrPattern.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, fmt.Errorf("npy header missing descr")
	}
	if m[1] != "<f4" {
		return 0, 0, fmt.Errorf("unsupported npy dtype %q, want <f4", m[1])
	}

	m = fortranPattern.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, fmt.Errorf("npy header missing fortran_order")
	}
	if m[1] == "True" {
		return 0, 0, fmt.Errorf("fortran order npy not supported")
	}

	m = shapePattern.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, fmt.Errorf("npy header missing shape")
	}
	dims := make([]int, 0, 2)
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, fmt.Errorf("bad npy shape %q: %w", m[1], err)
		}
		dims = append(dims, d)
	}
	if len(dims) != 2 {
		return 0, 0, fmt.Errorf("npy shape has %d dimensions, want 2", len(dims))
	}
	if dims[0] < 0 || dims[1] < 0 {
		return 0, 0, fmt.Errorf("negative npy shape (%d, %d)", dims[0], dims[1])
	}
	return dims[0], dims[1], nil
}

// WriteMatrix encodes row vectors as a version 1 .npy stream readable by
// numpy.load. All rows must share one length.
func WriteMatrix(w io.Writer, vectors [][]float32) error {
	rows := len(vectors)
	cols := 0
	if rows > 0 {
		cols = len(vectors[0])
	}
	for i, vec := range vectors {
		if len(vec) != cols {
			return fmt.Errorf("row %d has length %d, want %d", i, len(vec), cols)
		}
	}

	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)
	// Total of magic, version, length field and header pads to 64 bytes
	total := len(npyMagic) + 2 + 2 + len(header) + 1
	if pad := (64 - total%64) % 64; pad > 0 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	row := make([]byte, cols*4)
	for _, vec := range vectors {
		for j, v := range vec {
			binary.LittleEndian.PutUint32(row[j*4:], math.Float32bits(v))
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
