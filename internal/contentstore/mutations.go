package contentstore

import "encoding/json"

// MutateRequest is the body of the mutate endpoint
type MutateRequest struct {
	Mutations []Mutation `json:"mutations"`
}

// Mutation is one of create, patch or delete
type Mutation struct {
	Create map[string]interface{} `json:"create,omitempty"`
	Patch  *Patch                 `json:"patch,omitempty"`
	Delete *Delete                `json:"delete,omitempty"`
}

// Patch sets fields on an existing document
type Patch struct {
	ID  string                 `json:"id"`
	Set map[string]interface{} `json:"set,omitempty"`
}

// Delete removes a document by ID
type Delete struct {
	ID string `json:"id"`
}

// MutateResponse is the result of a mutate transaction
type MutateResponse struct {
	TransactionID string           `json:"transactionId"`
	Results       []MutationResult `json:"results"`
}

// MutationResult describes one affected document
type MutationResult struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Document  json.RawMessage `json:"document,omitempty"`
}

// CreateMutation builds a create mutation for a document of docType
func CreateMutation(docType string, fields map[string]interface{}) Mutation {
	doc := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	doc["_type"] = docType
	return Mutation{Create: doc}
}

// SetMutation builds a patch that sets fields on document id
func SetMutation(id string, fields map[string]interface{}) Mutation {
	return Mutation{Patch: &Patch{ID: id, Set: fields}}
}

// DeleteMutation builds a delete mutation for document id
func DeleteMutation(id string) Mutation {
	return Mutation{Delete: &Delete{ID: id}}
}

func reference(id string) map[string]interface{} {
	return map[string]interface{}{
		"_type": "reference",
		"_ref":  id,
	}
}

func weakReference(id string) map[string]interface{} {
	ref := reference(id)
	ref["_weak"] = true
	return ref
}

func slugValue(slug string) map[string]interface{} {
	return map[string]interface{}{
		"_type":   "slug",
		"current": slug,
	}
}

func imageValue(assetRef string) map[string]interface{} {
	return map[string]interface{}{
		"_type": "image",
		"asset": reference(assetRef),
	}
}

// firstDocument decodes the first returned document into out
func (r *MutateResponse) firstDocument(out interface{}) (bool, error) {
	if r == nil || len(r.Results) == 0 || len(r.Results[0].Document) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(r.Results[0].Document, out); err != nil {
		return false, err
	}
	return true, nil
}

// firstID returns the ID of the first affected document
func (r *MutateResponse) firstID() string {
	if r == nil || len(r.Results) == 0 {
		return ""
	}
	return r.Results[0].ID
}
