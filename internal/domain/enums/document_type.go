package enums

type DocumentType string

const (
	DocumentTypePassport         DocumentType = "passport"
	DocumentTypeBirthCertificate DocumentType = "birth_certificate"
	DocumentTypeIdentityCard     DocumentType = "identity_card"
	DocumentTypePhoto            DocumentType = "photo"
	DocumentTypeProofOfAddress   DocumentType = "proof_of_address"
	DocumentTypeResidencePermit  DocumentType = "residence_permit"
	DocumentTypeFamilyBook       DocumentType = "family_book"
	DocumentTypeConsularCard     DocumentType = "consular_card"
	DocumentTypeOther            DocumentType = "other"
)

// ChildDocumentType is the closed key set of the child profile document map.
// Linking a document for a type overwrites the previous link for that type.
type ChildDocumentType string

const (
	ChildDocumentPassport         ChildDocumentType = "passport"
	ChildDocumentBirthCertificate ChildDocumentType = "birthCertificate"
	ChildDocumentResidencePermit  ChildDocumentType = "residencePermit"
	ChildDocumentAddressProof     ChildDocumentType = "addressProof"
	ChildDocumentPhoto            ChildDocumentType = "photo"
)

func (c ChildDocumentType) Valid() bool {
	switch c {
	case ChildDocumentPassport, ChildDocumentBirthCertificate,
		ChildDocumentResidencePermit, ChildDocumentAddressProof, ChildDocumentPhoto:
		return true
	}
	return false
}
