// Package flatfile lee y escribe el formato de texto legado del tracker:
// <paciente>_meds.txt con "name,dosage,time_of_day,current,total" y
// <paciente>_logs.txt con "date,med_name,1|0".
package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"

	"github.com/google/renameio/v2"
)

type MedLine struct {
	Name      string
	Dosage    string
	TimeOfDay string // etiqueta ("Morning") o código ("morning")
	Current   int
	Total     int
}

type LogLine struct {
	Date       string
	Medication string
	Taken      bool
}

// MedsFileName y LogsFileName usan el mismo prefijo saneado que los reportes,
// así el archivo queda siempre dentro del directorio pedido.
func MedsFileName(patient string) string { return patients.FileName(patient) + "_meds.txt" }
func LogsFileName(patient string) string { return patients.FileName(patient) + "_logs.txt" }

// ParseMeds ignora líneas sin exactamente 5 campos; números inválidos quedan en 0.
func ParseMeds(r io.Reader) (lines []MedLine, skipped int, err error) {
	err = eachLine(r, func(line string) {
		parts := strings.Split(line, ",")
		if len(parts) != 5 || strings.TrimSpace(parts[0]) == "" {
			skipped++
			return
		}
		lines = append(lines, MedLine{
			Name:      strings.TrimSpace(parts[0]),
			Dosage:    strings.TrimSpace(parts[1]),
			TimeOfDay: strings.TrimSpace(parts[2]),
			Current:   atoiOrZero(parts[3]),
			Total:     atoiOrZero(parts[4]),
		})
	})
	return lines, skipped, err
}

// ParseLogs ignora líneas sin exactamente 3 campos; solo "1" cuenta como tomada.
func ParseLogs(r io.Reader) (lines []LogLine, skipped int, err error) {
	err = eachLine(r, func(line string) {
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			skipped++
			return
		}
		lines = append(lines, LogLine{
			Date:       strings.TrimSpace(parts[0]),
			Medication: strings.TrimSpace(parts[1]),
			Taken:      strings.TrimSpace(parts[2]) == "1",
		})
	})
	return lines, skipped, err
}

func FormatMeds(lines []MedLine) []byte {
	var b bytes.Buffer
	for _, l := range lines {
		fmt.Fprintf(&b, "%s,%s,%s,%d,%d\n", l.Name, l.Dosage, l.TimeOfDay, l.Current, l.Total)
	}
	return b.Bytes()
}

func FormatLogs(lines []LogLine) []byte {
	var b bytes.Buffer
	for _, l := range lines {
		taken := "0"
		if l.Taken {
			taken = "1"
		}
		fmt.Fprintf(&b, "%s,%s,%s\n", l.Date, l.Medication, taken)
	}
	return b.Bytes()
}

// ReadMedsFile devuelve vacío si el archivo no existe.
func ReadMedsFile(path string) ([]MedLine, int, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ParseMeds(f)
}

func ReadLogsFile(path string) ([]LogLine, int, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ParseLogs(f)
}

// WriteFile reemplaza path de forma atómica.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o644)
}

func eachLine(r io.Reader, fn func(string)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	return sc.Err()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
