package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"

	"github.com/clarainova/clara-backend/internal/entity"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(req *entity.ExportRequest) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(baseTitle)

	doc.AddParagraph()

	addLabeledBlock(doc, userLabel, req.Query)
	addLabeledBlock(doc, assistantLabel, req.Response)

	if len(req.Sources) > 0 {
		headPar := doc.AddParagraph()
		headPar.SetStyle("Heading2")
		headPar.AddRun().AddText(sourcesLabel)

		for _, src := range req.Sources {
			srcPar := doc.AddParagraph()
			srcPar.AddRun().AddText("• " + sourceLine(src))
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addLabeledBlock(doc *document.Document, label, text string) {
	labelPar := doc.AddParagraph()
	labelRun := labelPar.AddRun()
	labelRun.Properties().SetBold(true)
	labelRun.AddText(label + ":")

	bodyPar := doc.AddParagraph()
	bodyPar.AddRun().AddText(text)

	doc.AddParagraph()
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
