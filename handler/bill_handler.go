package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ingenium9/plum-assignment/dto"
	"github.com/Ingenium9/plum-assignment/service"
)

type BillHandler struct {
	ocrService  *service.OCRService
	billService *service.BillService
}

func NewBillHandler(ocrService *service.OCRService, billService *service.BillService) *BillHandler {
	return &BillHandler{
		ocrService:  ocrService,
		billService: billService,
	}
}

// ProcessBill handles POST /bills/process. Accepts a multipart "file"
// (image or PDF) or a JSON body {"text": ...}; ?verbose=true adds the
// confidence breakdown and intermediate steps.
func (h *BillHandler) ProcessBill(c *gin.Context) {
	verbose := c.Query("verbose") == "true"

	input := service.ProcessInput{Verbose: verbose}

	fileHeader, err := c.FormFile("file")
	switch {
	case err == nil:
		log.Printf("Processing uploaded bill %s", fileHeader.Filename)

		ocrResult, qrHint, err := h.ocrService.Extract(fileHeader)
		if err != nil {
			if errors.Is(err, dto.ErrNoAmountsFound) {
				c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
					Status: dto.StatusNoAmountsFound,
					Reason: "document too noisy",
				})
				return
			}
			log.Printf("Error: OCR extraction failed: %v", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Status: dto.StatusError,
				Reason: "internal server error",
			})
			return
		}

		input.RawText = ocrResult.RawText
		input.RawTokens = ocrResult.RawTokens
		input.OCRConfidence = ocrResult.Confidence
		input.QRHint = qrHint

	default:
		var req dto.ProcessTextRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.Text == "" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Status: dto.StatusBadRequest,
				Reason: dto.ErrNoInput.Error(),
			})
			return
		}

		input.RawText = req.Text
		input.OCRConfidence = 1.0
	}

	response, errResp := h.billService.Process(c.Request.Context(), input)
	if errResp != nil {
		c.JSON(http.StatusUnprocessableEntity, errResp)
		return
	}

	c.JSON(http.StatusOK, response)
}
