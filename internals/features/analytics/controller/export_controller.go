package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"

	"masingacdf_backend/internals/constants"
	applicationModel "masingacdf_backend/internals/features/applications/model"
)

// exportHeaders is the column order shared by the CSV and XLSX
// exports so the committee's spreadsheets line up either way.
var exportHeaders = []string{
	"Reference Number", "Full Name", "Gender", "ID Number", "Email",
	"Phone Number", "Ward", "Village", "Level of Study", "Institution Type",
	"Institution Name", "Admission Number", "Amount (KSh)", "Mode of Study",
	"Year of Study", "Family Status", "Status", "Submitted At",
}

func exportRow(app *applicationModel.BursaryApplication) []string {
	return []string{
		app.ReferenceNumber,
		app.FullName,
		app.Gender,
		app.IDNumber,
		app.Email,
		app.PhoneNumber,
		app.Ward,
		app.Village,
		app.LevelOfStudy,
		app.InstitutionType,
		app.InstitutionName,
		app.AdmissionNumber,
		strconv.Itoa(app.Amount),
		app.ModeOfStudy,
		app.YearOfStudy,
		app.FamilyStatus,
		app.Status,
		app.SubmittedAt.Format("2006-01-02 15:04"),
	}
}

type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

func (ctrl *ExportController) filteredApplications(c *fiber.Ctx) ([]applicationModel.BursaryApplication, error) {
	query := ctrl.DB.Model(&applicationModel.BursaryApplication{})

	if status := c.Query("status"); status != "" && constants.IsValidStatus(status) {
		query = query.Where("status = ?", status)
	}
	if ward := c.Query("ward"); ward != "" {
		query = query.Where("ward = ?", ward)
	}
	if from := c.Query("submitted_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("submitted_at >= ?", t)
		}
	}
	if to := c.Query("submitted_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("submitted_at < ?", t.Add(24*time.Hour))
		}
	}

	var apps []applicationModel.BursaryApplication
	err := query.Order("submitted_at ASC").Find(&apps).Error
	return apps, err
}

// ExportCSV streams the filtered application list as CSV.
// GET /api/a/exports/applications.csv
func (ctrl *ExportController) ExportCSV(c *fiber.Ctx) error {
	apps, err := ctrl.filteredApplications(c)
	if err != nil {
		log.Printf("[ERROR] export CSV: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not export applications")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not build the CSV")
	}
	for i := range apps {
		if err := w.Write(exportRow(&apps[i])); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Could not build the CSV")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not build the CSV")
	}

	filename := fmt.Sprintf("bursary_applications_%s.csv", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// ExportXLSX builds an Excel workbook of the filtered application
// list.
// GET /api/a/exports/applications.xlsx
func (ctrl *ExportController) ExportXLSX(c *fiber.Ctx) error {
	apps, err := ctrl.filteredApplications(c)
	if err != nil {
		log.Printf("[ERROR] export XLSX: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not export applications")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Applications"
	f.SetSheetName("Sheet1", sheet)

	headerRow := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not build the workbook")
	}

	for i := range apps {
		row := exportRow(&apps[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		// Keep amount numeric so Excel can sum the column
		cells[12] = apps[i].Amount

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Could not build the workbook")
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not build the workbook")
	}

	filename := fmt.Sprintf("bursary_applications_%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// ExportDuplicatesCSV lists field values shared by more than one
// application, for manual review.
// GET /api/a/exports/duplicates.csv
func (ctrl *ExportController) ExportDuplicatesCSV(c *fiber.Ctx) error {
	type dupeGroup struct {
		Value string
		Count int64
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Field", "Value", "Applications"}); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not build the CSV")
	}

	for _, column := range []string{"email", "phone_number", "admission_number"} {
		var groups []dupeGroup
		err := ctrl.DB.Model(&applicationModel.BursaryApplication{}).
			Select(column+" AS value, COUNT(*) AS count").
			Group(column).
			Having("COUNT(*) > 1").
			Order("count DESC").
			Scan(&groups).Error
		if err != nil {
			log.Printf("[ERROR] duplicates export (%s): %v", column, err)
			return helper.Error(c, fiber.StatusInternalServerError, "Could not export duplicates")
		}
		for _, g := range groups {
			if err := w.Write([]string{column, g.Value, strconv.FormatInt(g.Count, 10)}); err != nil {
				return helper.Error(c, fiber.StatusInternalServerError, "Could not build the CSV")
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not build the CSV")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="duplicate_candidates.csv"`)
	return c.Send(buf.Bytes())
}
