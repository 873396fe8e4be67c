package product

const getProductsQuery = `query GetProducts(
  $first: Int!
  $after: String
  $ids: [String!]
  $branchId: String
  $categoryId: String
  $availableOnly: Boolean!
  $branchTipo: BranchTipo
  $radiusKm: Float
  $jwt: String
) {
  products(
    first: $first
    after: $after
    ids: $ids
    branchId: $branchId
    categoryId: $categoryId
    availableOnly: $availableOnly
    branchTipo: $branchTipo
    radiusKm: $radiusKm
    jwt: $jwt
  ) {
    edges {
      node { id name price description imageUrl availability categoryId branchId currency weight createdAt }
      cursor
    }
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor totalCount }
  }
}`

const getProductQuery = `query GetProduct($id: ID!) {
  product(id: $id) {
    id name price description imageUrl stock
    category { id name icon gradient }
    createdAt updatedAt
  }
}`

const getCategoriesQuery = `query GetCategories {
  categories { id name icon gradient }
}`

const searchProductsQuery = `query SearchProducts(
  $query: String!
  $first: Int!
  $after: String
  $useVectorSearch: Boolean!
  $branchTipo: BranchTipo
  $radiusKm: Float
  $jwt: String
) {
  searchProducts(
    query: $query
    first: $first
    after: $after
    useVectorSearch: $useVectorSearch
    branchTipo: $branchTipo
    radiusKm: $radiusKm
    jwt: $jwt
  ) {
    edges {
      node { id name price imageUrl categoryId }
      cursor
    }
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor totalCount }
  }
}`

const createProductMutation = `mutation CreateProduct($input: CreateProductInput!, $jwt: String) {
  createProduct(input: $input, jwt: $jwt) {
    id name description price currency weight image availability categoryId imageUrl createdAt
  }
}`

const updateProductMutation = `mutation UpdateProduct($id: ID!, $input: ProductUpdateInput!) {
  updateProduct(id: $id, input: $input) {
    id name price description imageUrl stock updatedAt
  }
}`

const deleteProductMutation = `mutation DeleteProduct($id: ID!) {
  deleteProduct(id: $id) { success message }
}`

const updateStockMutation = `mutation UpdateProductStock($id: ID!, $stock: Int!) {
  updateProductStock(id: $id, stock: $stock) { id stock updatedAt }
}`
