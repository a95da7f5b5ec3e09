package config

import "github.com/linskybing/scan2cad/internal/domain/upload"

// UploadPolicies resolves the per-context limits, applying UPLOAD_POLICY_FILE
// when set.
func UploadPolicies() (upload.Policies, error) {
	return upload.LoadPolicyFile(UploadPolicyFile)
}
