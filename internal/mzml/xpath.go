package mzml

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/524D/mzcore/internal/model"
)

var (
	exprParamGroups  = xpath.MustCompile("/referenceableParamGroupList/referenceableParamGroup")
	exprInstruments  = xpath.MustCompile("/instrumentConfigurationList/instrumentConfiguration")
	exprParamRef     = xpath.MustCompile("referenceableParamGroupRef")
	exprCvParam      = xpath.MustCompile("cvParam")
	exprUserParam    = xpath.MustCompile("userParam")
	exprSoftwareRef  = xpath.MustCompile("softwareRef")
	exprScanSettings = xpath.MustCompile("scanSettingsRef")
	exprSources      = xpath.MustCompile("componentList/source")
	exprAnalyzers    = xpath.MustCompile("componentList/analyzer")
	exprDetectors    = xpath.MustCompile("componentList/detector")
)

// parseSection parses the raw inner XML of a list element kept by the
// decoder. The inner XML is wrapped in an element called name.
func parseSection(name string, inner []byte) (*xmlquery.Node, error) {
	var b bytes.Buffer
	b.Grow(len(inner) + 2*len(name) + 5)
	b.WriteString("<" + name + ">")
	b.Write(inner)
	b.WriteString("</" + name + ">")
	doc, err := xmlquery.Parse(&b)
	if err != nil {
		return nil, fmt.Errorf("MzML: parse %s: %w", name, err)
	}
	return doc, nil
}

// nodeParams collects the parameters of an element; referenced groups come
// first, then the element's own cvParams and userParams.
func nodeParams(n *xmlquery.Node, groups map[string]*model.ParamGroup) *model.ParamGroup {
	pg := &model.ParamGroup{}
	for _, r := range xmlquery.QuerySelectorAll(n, exprParamRef) {
		pg.Merge(groups[r.SelectAttr("ref")])
	}
	for _, c := range xmlquery.QuerySelectorAll(n, exprCvParam) {
		pg.AddCvParam(model.CvParam{
			Accession:      c.SelectAttr("accession"),
			Name:           c.SelectAttr("name"),
			CvLookupID:     c.SelectAttr("cvRef"),
			Value:          c.SelectAttr("value"),
			UnitAccession:  c.SelectAttr("unitAccession"),
			UnitName:       c.SelectAttr("unitName"),
			UnitCvLookupID: c.SelectAttr("unitCvRef"),
		})
	}
	for _, u := range xmlquery.QuerySelectorAll(n, exprUserParam) {
		pg.AddUserParam(model.UserParam{
			Name:           u.SelectAttr("name"),
			Type:           u.SelectAttr("type"),
			Value:          u.SelectAttr("value"),
			UnitAccession:  u.SelectAttr("unitAccession"),
			UnitName:       u.SelectAttr("unitName"),
			UnitCvLookupID: u.SelectAttr("unitCvRef"),
		})
	}
	return pg
}

func readParamGroups(raw *referenceableParamGroupList) (map[string]*model.ParamGroup, error) {
	groups := make(map[string]*model.ParamGroup)
	if raw == nil {
		return groups, nil
	}
	doc, err := parseSection("referenceableParamGroupList", raw.ReferenceableParamGroupListXML)
	if err != nil {
		return nil, err
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, exprParamGroups) {
		groups[n.SelectAttr("id")] = nodeParams(n, nil)
	}
	return groups, nil
}

func component(n *xmlquery.Node, kind model.ComponentKind, groups map[string]*model.ParamGroup) *model.InstrumentComponent {
	order, _ := strconv.Atoi(n.SelectAttr("order"))
	return &model.InstrumentComponent{
		ParamGroup: *nodeParams(n, groups),
		Kind:       kind,
		Order:      order,
	}
}

// readInstrumentConfigurations returns one configuration per analyzer,
// keyed by the configuration id. Source and detector are shared by all
// configurations of an instrument.
func (f *MzML) readInstrumentConfigurations() error {
	f.instrumentConfs = make(map[string][]*model.InstrumentConfiguration)
	raw := f.content.InstrumentConfigurationList
	if raw == nil {
		return nil
	}
	doc, err := parseSection("instrumentConfigurationList", raw.InstrumentConfigurationListXML)
	if err != nil {
		return err
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, exprInstruments) {
		id := n.SelectAttr("id")
		params := nodeParams(n, f.paramGroups)

		var sw *model.Software
		if r := xmlquery.QuerySelector(n, exprSoftwareRef); r != nil {
			sw = f.software[r.SelectAttr("ref")]
		}
		ssRef := n.SelectAttr("scanSettingsRef")
		if r := xmlquery.QuerySelector(n, exprScanSettings); r != nil {
			ssRef = r.SelectAttr("ref")
		}

		var source, detector *model.InstrumentComponent
		if s := xmlquery.QuerySelector(n, exprSources); s != nil {
			source = component(s, model.SourceComponent, f.paramGroups)
		}
		if d := xmlquery.QuerySelector(n, exprDetectors); d != nil {
			detector = component(d, model.DetectorComponent, f.paramGroups)
		}
		analyzers := xmlquery.QuerySelectorAll(n, exprAnalyzers)

		newConf := func() *model.InstrumentConfiguration {
			return &model.InstrumentConfiguration{
				ParamGroup:  *params.Clone(),
				ID:          id,
				ScanSetting: f.scanSettings[ssRef],
				Software:    sw,
				Source:      source,
				Detector:    detector,
			}
		}
		var confs []*model.InstrumentConfiguration
		for _, a := range analyzers {
			conf := newConf()
			conf.Analyzer = component(a, model.AnalyzerComponent, f.paramGroups)
			confs = append(confs, conf)
		}
		if len(confs) == 0 {
			confs = append(confs, newConf())
		}
		if _, seen := f.instrumentConfs[id]; !seen {
			f.instrumentOrder = append(f.instrumentOrder, id)
		}
		f.instrumentConfs[id] = confs
	}
	return nil
}
