package business

const getBusinessesQuery = `query GetBusinesses($jwt: String) {
  businesses(jwt: $jwt) {
    id name type avatarUrl coverUrl globalRating isActive description tags
  }
}`

const getBusinessQuery = `query GetBusiness($id: String!, $jwt: String) {
  business(id: $id, jwt: $jwt) {
    id name type description avatarUrl coverUrl tags isActive ownerId globalRating createdAt
  }
}`

const getMyBusinessesQuery = `query GetMyBusinesses($jwt: String!) {
  businesses(jwt: $jwt) {
    id name type avatarUrl isActive description
  }
}`

const getBranchesQuery = `query GetBranches($first: Int!, $after: String, $businessId: String, $onlyActive: Boolean, $tipo: BranchTipo, $jwt: String) {
  branches(first: $first, after: $after, businessId: $businessId, onlyActive: $onlyActive, tipo: $tipo, jwt: $jwt) {
    edges {
      node {
        id businessId name tipos address phone status avatarUrl coverUrl deliveryRadius facilities schedule
        coordinates { coordinates }
      }
      cursor
    }
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor totalCount }
  }
}`

const getBranchQuery = `query GetBranch($id: String!, $jwt: String) {
  branch(id: $id, jwt: $jwt) {
    id businessId name tipos address phone schedule facilities avatarUrl coverUrl status deliveryRadius managerIds
    coordinates { coordinates }
  }
}`

const getMyBranchesQuery = `query GetMyBranches($first: Int!, $after: String, $businessId: String!, $jwt: String!) {
  branches(first: $first, after: $after, businessId: $businessId, jwt: $jwt) {
    edges {
      node { id name tipos address status avatarUrl phone }
      cursor
    }
    pageInfo { hasNextPage endCursor totalCount }
  }
}`

const registerBusinessMutation = `mutation RegisterBusiness($businessInput: CreateBusinessInput!, $branchesInput: [RegisterBranchInput!]!, $jwt: String) {
  registerBusiness(businessInput: $businessInput, branchesInput: $branchesInput, jwt: $jwt) {
    id name type avatarUrl coverUrl isActive
  }
}`

const updateBusinessMutation = `mutation UpdateBusiness($businessId: String!, $input: UpdateBusinessInput!, $jwt: String) {
  updateBusiness(businessId: $businessId, input: $input, jwt: $jwt) {
    id name type description avatarUrl coverUrl isActive
  }
}`

const createBranchMutation = `mutation CreateBranch($input: CreateBranchInput!, $jwt: String) {
  createBranch(input: $input, jwt: $jwt) {
    id name tipos address phone status avatarUrl coverUrl
  }
}`

const updateBranchMutation = `mutation UpdateBranch($branchId: String!, $input: UpdateBranchInput!, $jwt: String) {
  updateBranch(branchId: $branchId, input: $input, jwt: $jwt) {
    id name tipos status avatarUrl address phone
  }
}`

const addBranchToUserMutation = `mutation AddBranchToUser($input: AddBranchInput!, $jwt: String) {
  addBranchToUser(input: $input, jwt: $jwt) { id branchIds }
}`

const removeBranchFromUserMutation = `mutation RemoveBranchFromUser($input: RemoveBranchInput!, $jwt: String) {
  removeBranchFromUser(input: $input, jwt: $jwt) { id branchIds }
}`
