package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/darfe-e/greenFarmacy/ledger"
	"github.com/darfe-e/greenFarmacy/util"
)

type createPharmacyReq struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Address  string          `json:"address"`
	Phone    string          `json:"phone"`
	RentCost decimal.Decimal `json:"rent_cost"`
}

func (s *Server) createPharmacy(c *gin.Context) {
	var req createPharmacyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := domain.NewPharmacy(req.ID, req.Name, req.Address, req.Phone, req.RentCost)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.ledger.AddPharmacy(p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p.Info())
}

func (s *Server) listPharmacies(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Pharmacies())
}

func (s *Server) getPharmacy(c *gin.Context) {
	info, err := s.ledger.Pharmacy(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) deletePharmacy(c *gin.Context) {
	if err := s.ledger.RemovePharmacy(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getStock(c *gin.Context) {
	lines, err := s.ledger.Stock(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

type stockReq struct {
	ProductID domain.ProductID `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Source    string           `json:"source,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

func (s *Server) addStock(c *gin.Context) {
	var req stockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	if err := s.ledger.AddProduct(c.Param("id"), req.ProductID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	s.stockLine(c, req.ProductID)
}

func (s *Server) removeStock(c *gin.Context) {
	var req stockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	if err := s.ledger.RemoveProduct(c.Param("id"), req.ProductID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	s.stockLine(c, req.ProductID)
}

func (s *Server) stockLine(c *gin.Context, productID domain.ProductID) {
	q, err := s.ledger.QuantityOf(c.Param("id"), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.StockLine{ProductID: productID, Quantity: q})
}

func (s *Server) supply(c *gin.Context) {
	var req stockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	mv, err := s.ledger.Supply(c.Param("id"), req.ProductID, req.Quantity, req.Source)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mv)
}

func (s *Server) writeOff(c *gin.Context) {
	var req stockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	mv, err := s.ledger.WriteOff(c.Param("id"), req.ProductID, req.Quantity, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mv)
}

func (s *Server) availableAnalogues(c *gin.Context) {
	list, err := s.ledger.AvailableAnalogues(c.Param("id"), domain.ProductID(c.Param("product")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productRecords(list))
}

// Product handlers
type productReq struct {
	ID                  domain.ProductID   `json:"id"`
	Name                string             `json:"name"`
	Form                string             `json:"form"`
	Price               decimal.Decimal    `json:"price"`
	ExpirationDate      domain.SafeDate    `json:"expiration_date"`
	ManufacturerCountry string             `json:"manufacturer_country"`
	ActiveSubstance     string             `json:"active_substance"`
	Analogues           []domain.ProductID `json:"analogues"`
}

func (r productReq) product() (*domain.MedicalProduct, error) {
	form, err := domain.ParseProductForm(r.Form)
	if err != nil {
		return nil, err
	}
	p := &domain.MedicalProduct{
		ID:                  r.ID,
		Name:                r.Name,
		Form:                form,
		Price:               r.Price,
		ExpirationDate:      r.ExpirationDate,
		ManufacturerCountry: r.ManufacturerCountry,
		ActiveSubstance:     r.ActiveSubstance,
	}
	for _, a := range r.Analogues {
		if err := p.AddAnalogue(a); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func productRecords(list []*domain.MedicalProduct) []domain.ProductRecord {
	out := make([]domain.ProductRecord, 0, len(list))
	for _, p := range list {
		out = append(out, p.Record())
	}
	return out
}

func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := req.product()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.ledger.RegisterProduct(p); err != nil {
		writeError(c, err)
		return
	}
	s.respondProduct(c, http.StatusCreated, p.ID)
}

func (s *Server) updateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	req.ID = domain.ProductID(c.Param("id"))
	req.Analogues = nil
	p, err := req.product()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.ledger.UpdateProduct(p); err != nil {
		writeError(c, err)
		return
	}
	s.respondProduct(c, http.StatusOK, p.ID)
}

func (s *Server) respondProduct(c *gin.Context, status int, id domain.ProductID) {
	p, err := s.ledger.Product(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, p.Record())
}

func (s *Server) getProduct(c *gin.Context) {
	s.respondProduct(c, http.StatusOK, domain.ProductID(c.Param("id")))
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.ledger.UnregisterProduct(domain.ProductID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listProducts returns the whole catalog, or the search matches when q is set.
func (s *Server) listProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, productRecords(s.ledger.Products()))
		return
	}
	list, err := s.ledger.SearchProducts(q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productRecords(list))
}

func (s *Server) availability(c *gin.Context) {
	id := domain.ProductID(c.Param("id"))
	if _, err := s.ledger.Product(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id": id,
		"total":      s.ledger.TotalQuantity(id),
		"pharmacies": s.ledger.Availability(id),
	})
}

func (s *Server) listAnalogues(c *gin.Context) {
	list, err := s.ledger.Analogues(domain.ProductID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productRecords(list))
}

type analogueReq struct {
	AnalogueID domain.ProductID `json:"analogue_id"`
}

func (s *Server) addAnalogue(c *gin.Context) {
	var req analogueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	id := domain.ProductID(c.Param("id"))
	if err := s.ledger.AddAnalogue(id, req.AnalogueID); err != nil {
		writeError(c, err)
		return
	}
	s.respondProduct(c, http.StatusOK, id)
}

func (s *Server) removeAnalogue(c *gin.Context) {
	id := domain.ProductID(c.Param("id"))
	if err := s.ledger.RemoveAnalogue(id, domain.ProductID(c.Param("analogue"))); err != nil {
		writeError(c, err)
		return
	}
	s.respondProduct(c, http.StatusOK, id)
}

func (s *Server) findProduct(c *gin.Context) {
	list, err := s.ledger.FindProduct(c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Return handlers
type submitReturnReq struct {
	ID         string           `json:"id"`
	Date       domain.SafeDate  `json:"date"`
	ProductID  domain.ProductID `json:"product_id"`
	PharmacyID string           `json:"pharmacy_id"`
	Quantity   int              `json:"quantity"`
	Reason     string           `json:"reason"`
}

func (s *Server) submitReturn(c *gin.Context) {
	var req submitReturnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	if req.ID == "" {
		req.ID = util.GenerateID("RET")
	}
	if req.Date.IsZero() {
		req.Date = domain.Today()
	}
	product, err := s.ledger.Product(req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	r, err := domain.NewReturn(req.ID, req.Date, product, req.PharmacyID, req.Quantity, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.ledger.SubmitReturn(r); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r.Record())
}

func (s *Server) listReturns(c *gin.Context) {
	var status domain.ReturnStatus
	if v := c.Query("status"); v != "" {
		st, err := domain.ParseReturnStatus(v)
		if err != nil {
			writeError(c, err)
			return
		}
		status = st
	}
	list := s.ledger.Returns(status)
	out := make([]domain.ReturnRecord, 0, len(list))
	for _, r := range list {
		out = append(out, r.Record())
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getReturn(c *gin.Context) {
	r, err := s.ledger.Return(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.Record())
}

func (s *Server) approveReturn(c *gin.Context) {
	r, err := s.ledger.ApproveReturn(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.Record())
}

type rejectReq struct {
	Reason string `json:"reason"`
}

func (s *Server) rejectReturn(c *gin.Context) {
	var req rejectReq
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badJSON(c)
			return
		}
	}
	r, err := s.ledger.RejectReturn(c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.Record())
}

func (s *Server) listMovements(c *gin.Context) {
	f := ledger.MovementFilter{
		PharmacyID: c.Query("pharmacy"),
		ProductID:  domain.ProductID(c.Query("product")),
		Kind:       domain.MovementKind(c.Query("kind")),
	}
	c.JSON(http.StatusOK, s.ledger.Movements(f))
}
