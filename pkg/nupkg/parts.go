// SPDX-License-Identifier: MPL-2.0

package nupkg

import (
	"bytes"
	"encoding/xml"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const (
	nuspecNamespace       = "http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd"
	contentTypesNamespace = "http://schemas.openxmlformats.org/package/2006/content-types"
	relsNamespace         = "http://schemas.openxmlformats.org/package/2006/relationships"
	corePropsNamespace    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"

	manifestRelType  = "http://schemas.microsoft.com/packaging/2010/07/manifest"
	corePropsRelType = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	relsPartName         = "_rels/.rels"
	contentTypesPartName = "[Content_Types].xml"
	corePropsDir         = "package/services/metadata/core-properties"

	// lastModifiedBy is recorded in the core-properties part.
	lastModifiedBy = "twinget"
)

// partNamespace seeds the deterministic part and relationship identifiers.
var partNamespace = uuid.MustParse("6f1c5b0e-2d8a-4b7e-9a51-0c7d3e4f9a21")

type (
	nuspecXML struct {
		XMLName  xml.Name          `xml:"package"`
		Xmlns    string            `xml:"xmlns,attr"`
		Metadata nuspecMetadataXML `xml:"metadata"`
	}

	nuspecMetadataXML struct {
		ID          string `xml:"id"`
		Version     string `xml:"version"`
		Authors     string `xml:"authors"`
		Description string `xml:"description"`
	}

	contentTypesXML struct {
		XMLName  xml.Name         `xml:"Types"`
		Xmlns    string           `xml:"xmlns,attr"`
		Defaults []contentTypeXML `xml:"Default"`
	}

	contentTypeXML struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	}

	relationshipsXML struct {
		XMLName       xml.Name          `xml:"Relationships"`
		Xmlns         string            `xml:"xmlns,attr"`
		Relationships []relationshipXML `xml:"Relationship"`
	}

	relationshipXML struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
		ID     string `xml:"Id,attr"`
	}

	corePropertiesXML struct {
		XMLName        xml.Name `xml:"coreProperties"`
		XmlnsDC        string   `xml:"xmlns:dc,attr"`
		XmlnsDCTerms   string   `xml:"xmlns:dcterms,attr"`
		XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
		Xmlns          string   `xml:"xmlns,attr"`
		Creator        string   `xml:"dc:creator"`
		Description    string   `xml:"dc:description"`
		Identifier     string   `xml:"dc:identifier"`
		Version        string   `xml:"version"`
		Keywords       string   `xml:"keywords"`
		LastModifiedBy string   `xml:"lastModifiedBy"`
	}
)

// manifestPartName returns the archive name of the manifest part.
func manifestPartName(m *Metadata) string {
	return m.ID + ManifestExt
}

// corePropsPartName returns the archive name of the core-properties part. The
// name is derived from id and version so repeated builds are identical.
func corePropsPartName(m *Metadata) string {
	id := uuid.NewSHA1(partNamespace, []byte(m.ID+"/"+m.Version.String()))
	return path.Join(corePropsDir, strings.ReplaceAll(id.String(), "-", "")+".psmdcp")
}

func relationshipID(target string) string {
	id := uuid.NewSHA1(partNamespace, []byte(target))
	return "R" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:16])
}

// marshalPart encodes v with the XML declaration every part carries.
func marshalPart(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderNuspec(m *Metadata) ([]byte, error) {
	return marshalPart(nuspecXML{
		Xmlns: nuspecNamespace,
		Metadata: nuspecMetadataXML{
			ID:          m.ID,
			Version:     m.Version.String(),
			Authors:     strings.Join(m.Authors, ","),
			Description: m.Description,
		},
	})
}

func renderRelationships(m *Metadata) ([]byte, error) {
	manifestTarget := "/" + manifestPartName(m)
	coreTarget := "/" + corePropsPartName(m)
	return marshalPart(relationshipsXML{
		Xmlns: relsNamespace,
		Relationships: []relationshipXML{
			{Type: manifestRelType, Target: manifestTarget, ID: relationshipID(manifestTarget)},
			{Type: corePropsRelType, Target: coreTarget, ID: relationshipID(coreTarget)},
		},
	})
}

func renderCoreProperties(m *Metadata) ([]byte, error) {
	return marshalPart(corePropertiesXML{
		XmlnsDC:        "http://purl.org/dc/elements/1.1/",
		XmlnsDCTerms:   "http://purl.org/dc/terms/",
		XmlnsXSI:       "http://www.w3.org/2001/XMLSchema-instance",
		Xmlns:          corePropsNamespace,
		Creator:        strings.Join(m.Authors, ","),
		Description:    m.Description,
		Identifier:     m.ID,
		Version:        m.Version.String(),
		LastModifiedBy: lastModifiedBy,
	})
}

// renderContentTypes lists one default content type per extension found in
// partNames, sorted by extension.
func renderContentTypes(partNames []string) ([]byte, error) {
	seen := make(map[string]bool)
	var exts []string
	for _, name := range partNames {
		ext := strings.TrimPrefix(path.Ext(name), ".")
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	slices.Sort(exts)

	types := contentTypesXML{Xmlns: contentTypesNamespace}
	for _, ext := range exts {
		types.Defaults = append(types.Defaults, contentTypeXML{Extension: ext, ContentType: contentTypeFor(ext)})
	}
	return marshalPart(types)
}

func contentTypeFor(ext string) string {
	switch ext {
	case "rels":
		return "application/vnd.openxmlformats-package.relationships+xml"
	case "psmdcp":
		return "application/vnd.openxmlformats-package.core-properties+xml"
	default:
		return "application/octet"
	}
}
