package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/service"
)

type profileHandlers struct {
	profiles *service.ProfileService
}

// Payloads anidados: espejo de las views pero con punteros para merge parcial
// en updates. Las colecciones ausentes en un update se dejan intactas.

type personJobPayload struct {
	JobID       string `json:"job_id"`
	StartMonth  int    `json:"start_month"`
	StartYear   int    `json:"start_year"`
	FinishMonth int    `json:"finish_month"`
	FinishYear  int    `json:"finish_year"`
	Description string `json:"description"`
}

type personEducationPayload struct {
	Institution     string     `json:"institution"`
	Course          string     `json:"course"`
	StartDate       *time.Time `json:"start_date"`
	FinishDate      *time.Time `json:"finish_date"`
	Description     string     `json:"description"`
	CertificateFile string     `json:"certificate_file"`
}

type personCoursePayload struct {
	Institution     string     `json:"institution"`
	Name            string     `json:"name"`
	StartDate       *time.Time `json:"start_date"`
	FinishDate      *time.Time `json:"finish_date"`
	CertificateFile string     `json:"certificate_file"`
}

type bankDataPayload struct {
	BankName    string `json:"bank_name"`
	Branch      string `json:"branch"`
	Account     string `json:"account"`
	AccountType string `json:"account_type"`
	Pix         string `json:"pix"`
}

type relatedFilePayload struct {
	Description string `json:"description"`
	FileName    string `json:"file_name"`
}

func toPersonJobs(in []personJobPayload) []repository.PersonJob {
	out := make([]repository.PersonJob, 0, len(in))
	for _, j := range in {
		out = append(out, repository.PersonJob(j))
	}
	return out
}

func toPersonEducations(in []personEducationPayload) []repository.PersonEducation {
	out := make([]repository.PersonEducation, 0, len(in))
	for _, e := range in {
		out = append(out, repository.PersonEducation(e))
	}
	return out
}

func toPersonCourses(in []personCoursePayload) []repository.PersonCourse {
	out := make([]repository.PersonCourse, 0, len(in))
	for _, c := range in {
		out = append(out, repository.PersonCourse(c))
	}
	return out
}

func toPersonBank(in *bankDataPayload) *repository.PersonBankData {
	if in == nil {
		return nil
	}
	b := repository.PersonBankData(*in)
	return &b
}

func toCompanyBank(in *bankDataPayload) *repository.CompanyBankData {
	if in == nil {
		return nil
	}
	b := repository.CompanyBankData(*in)
	return &b
}

func toPersonFiles(in []relatedFilePayload) []repository.PersonRelatedFile {
	out := make([]repository.PersonRelatedFile, 0, len(in))
	for _, f := range in {
		out = append(out, repository.PersonRelatedFile(f))
	}
	return out
}

func toCompanyFiles(in []relatedFilePayload) []repository.CompanyRelatedFile {
	out := make([]repository.CompanyRelatedFile, 0, len(in))
	for _, f := range in {
		out = append(out, repository.CompanyRelatedFile(f))
	}
	return out
}

// parsePage lee ?page= y ?limit= (1-based) si están presentes.
func parsePage(r *http.Request) (page, limit *int) {
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = &n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = &n
		}
	}
	return page, limit
}

// ─────────────────────────────── person ───────────────────────────────

func (h *profileHandlers) createPerson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        string     `json:"user_id"`
		UserName      string     `json:"user_name"`
		PersonName    string     `json:"person_name"`
		Nickname      string     `json:"nickname"`
		Gender        string     `json:"gender"`
		Birthday      *time.Time `json:"birthday"`
		MaritalStatus string     `json:"marital_status"`
		MotherName    string     `json:"mother_name"`
		Description   string     `json:"description"`

		Professions  []personJobPayload       `json:"professions"`
		Educations   []personEducationPayload `json:"educations"`
		Courses      []personCoursePayload    `json:"courses"`
		BankDataOne  *bankDataPayload         `json:"bank_data_one"`
		BankDataTwo  *bankDataPayload         `json:"bank_data_two"`
		RelatedFiles []relatedFilePayload     `json:"related_files"`

		CreatedBy string `json:"created_by"`
		OwnerID   string `json:"owner_id"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}

	p, err := h.profiles.CreatePerson(r.Context(), repository.CreatePersonProfileInput{
		UserID:        req.UserID,
		UserName:      req.UserName,
		PersonName:    req.PersonName,
		Nickname:      req.Nickname,
		Gender:        req.Gender,
		Birthday:      req.Birthday,
		MaritalStatus: req.MaritalStatus,
		MotherName:    req.MotherName,
		Description:   req.Description,
		Professions:   toPersonJobs(req.Professions),
		Educations:    toPersonEducations(req.Educations),
		Courses:       toPersonCourses(req.Courses),
		BankDataOne:   toPersonBank(req.BankDataOne),
		BankDataTwo:   toPersonBank(req.BankDataTwo),
		RelatedFiles:  toPersonFiles(req.RelatedFiles),
		CreatedBy:     req.CreatedBy,
		OwnerID:       req.OwnerID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toPersonProfileView(p))
}

func (h *profileHandlers) getPerson(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetPersonByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPersonProfileView(p))
}

func (h *profileHandlers) updatePerson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName      *string    `json:"user_name"`
		PersonName    *string    `json:"person_name"`
		Nickname      *string    `json:"nickname"`
		Gender        *string    `json:"gender"`
		Birthday      *time.Time `json:"birthday"`
		MaritalStatus *string    `json:"marital_status"`
		MotherName    *string    `json:"mother_name"`
		Description   *string    `json:"description"`

		Professions  *[]personJobPayload       `json:"professions"`
		Educations   *[]personEducationPayload `json:"educations"`
		Courses      *[]personCoursePayload    `json:"courses"`
		BankDataOne  *bankDataPayload          `json:"bank_data_one"`
		BankDataTwo  *bankDataPayload          `json:"bank_data_two"`
		RelatedFiles *[]relatedFilePayload     `json:"related_files"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}

	input := repository.UpdatePersonProfileInput{
		UserName:      req.UserName,
		PersonName:    req.PersonName,
		Nickname:      req.Nickname,
		Gender:        req.Gender,
		Birthday:      req.Birthday,
		MaritalStatus: req.MaritalStatus,
		MotherName:    req.MotherName,
		Description:   req.Description,
		BankDataOne:   toPersonBank(req.BankDataOne),
		BankDataTwo:   toPersonBank(req.BankDataTwo),
	}
	if req.Professions != nil {
		jobs := toPersonJobs(*req.Professions)
		input.Professions = &jobs
	}
	if req.Educations != nil {
		edus := toPersonEducations(*req.Educations)
		input.Educations = &edus
	}
	if req.Courses != nil {
		courses := toPersonCourses(*req.Courses)
		input.Courses = &courses
	}
	if req.RelatedFiles != nil {
		files := toPersonFiles(*req.RelatedFiles)
		input.RelatedFiles = &files
	}

	p, err := h.profiles.UpdatePerson(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPersonProfileView(p))
}

func (h *profileHandlers) deletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.DeletePerson(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *profileHandlers) searchPersons(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	result, err := h.profiles.SearchPersons(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	out := pageView[personProfileView]{Items: make([]personProfileView, 0, len(result.Items)), Total: result.Total}
	for i := range result.Items {
		out.Items = append(out.Items, toPersonProfileView(&result.Items[i]))
	}
	WriteJSON(w, http.StatusOK, out)
}

// ─────────────────────────────── company ───────────────────────────────

func (h *profileHandlers) createCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		UserName    string `json:"user_name"`
		CompanyName string `json:"company_name"`
		TradeName   string `json:"trade_name"`
		CNPJ        string `json:"cnpj"`
		Description string `json:"description"`

		BankDataOne  *bankDataPayload     `json:"bank_data_one"`
		BankDataTwo  *bankDataPayload     `json:"bank_data_two"`
		RelatedFiles []relatedFilePayload `json:"related_files"`

		CreatedBy string `json:"created_by"`
		OwnerID   string `json:"owner_id"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}

	p, err := h.profiles.CreateCompany(r.Context(), repository.CreateCompanyProfileInput{
		UserID:       req.UserID,
		UserName:     req.UserName,
		CompanyName:  req.CompanyName,
		TradeName:    req.TradeName,
		CNPJ:         req.CNPJ,
		Description:  req.Description,
		BankDataOne:  toCompanyBank(req.BankDataOne),
		BankDataTwo:  toCompanyBank(req.BankDataTwo),
		RelatedFiles: toCompanyFiles(req.RelatedFiles),
		CreatedBy:    req.CreatedBy,
		OwnerID:      req.OwnerID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toCompanyProfileView(p))
}

func (h *profileHandlers) getCompany(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetCompanyByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCompanyProfileView(p))
}

func (h *profileHandlers) updateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName    *string `json:"user_name"`
		CompanyName *string `json:"company_name"`
		TradeName   *string `json:"trade_name"`
		CNPJ        *string `json:"cnpj"`
		Description *string `json:"description"`

		BankDataOne  *bankDataPayload      `json:"bank_data_one"`
		BankDataTwo  *bankDataPayload      `json:"bank_data_two"`
		RelatedFiles *[]relatedFilePayload `json:"related_files"`
	}
	if !ReadJSON(w, r, &req) {
		return
	}

	input := repository.UpdateCompanyProfileInput{
		UserName:    req.UserName,
		CompanyName: req.CompanyName,
		TradeName:   req.TradeName,
		CNPJ:        req.CNPJ,
		Description: req.Description,
		BankDataOne: toCompanyBank(req.BankDataOne),
		BankDataTwo: toCompanyBank(req.BankDataTwo),
	}
	if req.RelatedFiles != nil {
		files := toCompanyFiles(*req.RelatedFiles)
		input.RelatedFiles = &files
	}

	p, err := h.profiles.UpdateCompany(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCompanyProfileView(p))
}

func (h *profileHandlers) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *profileHandlers) searchCompanies(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	result, err := h.profiles.SearchCompanies(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	out := pageView[companyProfileView]{Items: make([]companyProfileView, 0, len(result.Items)), Total: result.Total}
	for i := range result.Items {
		out.Items = append(out.Items, toCompanyProfileView(&result.Items[i]))
	}
	WriteJSON(w, http.StatusOK, out)
}
