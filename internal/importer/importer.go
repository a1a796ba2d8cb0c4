// Package importer reads user records out of tabular files: the optional
// users.csv sidecar and uploaded .csv/.xlsx sheets.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/linkedup/app/internal/models"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor
// XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format (want .csv or .xlsx)")

// Row is one sheet row keyed by lowercased, trimmed header name.
type Row map[string]string

// ParseFile dispatches on the uploaded filename's extension.
func ParseFile(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseCSV reads a CSV document, using the first row as the header.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return rowsFromRecords(records), nil
}

// ParseXLSX reads the first sheet of an XLSX workbook, using the first row
// as the header.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rowsFromRecords(records), nil
}

func rowsFromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := Row{}
		empty := true
		for i, h := range headers {
			if h == "" || i >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[i])
			row[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
}

// pick returns the first non-empty value among the named columns.
func (r Row) pick(names ...string) string {
	for _, n := range names {
		if v := r[n]; v != "" {
			return v
		}
	}
	return ""
}

// MapRowToUser turns a sheet row into a user record using the header
// aliases the original importer accepted: id|userid, name|fullname, email,
// role, skills (comma-separated), plus experience and bio when present.
func MapRowToUser(row Row, idx int) *models.User {
	id := row.pick("id", "userid")
	if id == "" {
		id = fmt.Sprintf("u-import-%d", idx)
	}
	name := row.pick("name", "fullname", "full name", "full_name")
	if name == "" {
		name = fmt.Sprintf("User %d", idx+1)
	}
	role := row.pick("role")
	if role == "" {
		role = "Member"
	}
	experience, _ := strconv.Atoi(row.pick("experience", "exp"))

	var skills []string
	for _, s := range strings.Split(row.pick("skills", "skill"), ",") {
		if t := strings.TrimSpace(s); t != "" {
			skills = append(skills, t)
		}
	}

	return &models.User{
		ID:         id,
		Name:       name,
		Email:      row.pick("email"),
		Role:       role,
		Bio:        row.pick("bio", "about"),
		Experience: models.FlexInt(experience),
		Skills:     models.FlexStrings(skills),
	}
}

// UsersFromRows maps every row.
func UsersFromRows(rows []Row) []*models.User {
	out := make([]*models.User, 0, len(rows))
	for i, row := range rows {
		out = append(out, MapRowToUser(row, i))
	}
	return out
}

// LoadUsersCSVFile reads the users.csv sidecar. A missing file is not an
// error: the teammate pool simply has no CSV contribution.
func LoadUsersCSVFile(path string) ([]*models.User, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, err
	}
	return UsersFromRows(rows), nil
}

// MergeByEmail combines the CSV pool with locally stored users, keyed by
// lowercased email (falling back to id for email-less records). Local
// entries override CSV fields on conflict.
func MergeByEmail(csvUsers, localUsers []*models.User) []*models.User {
	keyOf := func(u *models.User) string {
		if k := u.EmailLower(); k != "" {
			return k
		}
		return u.ID
	}

	index := make(map[string]int)
	var out []*models.User
	for _, u := range csvUsers {
		index[keyOf(u)] = len(out)
		out = append(out, u)
	}
	for _, u := range localUsers {
		k := keyOf(u)
		if i, ok := index[k]; ok {
			out[i] = overlay(out[i], u)
		} else {
			index[k] = len(out)
			out = append(out, u)
		}
	}
	return out
}

// overlay keeps base's fields where local leaves them empty.
func overlay(base, local *models.User) *models.User {
	merged := *local
	if merged.Name == "" {
		merged.Name = base.Name
	}
	if merged.Role == "" {
		merged.Role = base.Role
	}
	if merged.Bio == "" {
		merged.Bio = base.Bio
	}
	if len(merged.Skills) == 0 {
		merged.Skills = base.Skills
	}
	if merged.Experience == 0 {
		merged.Experience = base.Experience
	}
	return &merged
}
