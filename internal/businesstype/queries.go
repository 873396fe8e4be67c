package businesstype

// configFields is the selection set shared by every document returning a
// full config.
const configFields = `
    id key name description icon
    model3dFileName model3dUrl model3dPresignedUrl model3dVersion
    gradient { darkColor mediumColor lightColor veryLightColor overlayColor }
    camera { positionX positionY positionZ eulerX eulerY eulerZ }
    glowColor
    features { icon title subtitle sortOrder }
    sortOrder isActive createdAt updatedAt
`

const getConfigsQuery = `query GetBusinessTypeConfigs($lastSyncAt: DateTime) {
  businessTypeConfigs(lastSyncAt: $lastSyncAt) {` + configFields + `}
}`

const createConfigMutation = `mutation CreateBusinessTypeConfig($input: CreateBusinessTypeConfigInput!, $jwt: String!) {
  createBusinessTypeConfig(input: $input, jwt: $jwt) {` + configFields + `}
}`

const updateConfigMutation = `mutation UpdateBusinessTypeConfig($id: String!, $input: UpdateBusinessTypeConfigInput!, $jwt: String!) {
  updateBusinessTypeConfig(id: $id, input: $input, jwt: $jwt) {` + configFields + `}
}`

const deactivateConfigMutation = `mutation DeactivateBusinessTypeConfig($id: String!, $jwt: String!) {
  deactivateBusinessTypeConfig(id: $id, jwt: $jwt) { id isActive }
}`

const deleteConfigMutation = `mutation DeleteBusinessTypeConfig($id: String!, $jwt: String!) {
  deleteBusinessTypeConfig(id: $id, jwt: $jwt)
}`
